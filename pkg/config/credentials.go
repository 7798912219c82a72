package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables holding the Trello login.
const (
	EnvUsername = "TRELLO_USERNAME"
	EnvPassword = "TRELLO_PASSWORD"
)

// ErrCredentialsMissing means the username or password is not configured.
var ErrCredentialsMissing = errors.New("credentials missing")

// Credentials is the Trello login used by the run.
type Credentials struct {
	Username string
	Password string
}

// String keeps the password out of logs and error messages.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Username: %q, Password: [redacted]}", c.Username)
}

// LoadCredentials reads the login from the environment. When envFile is set
// and exists it is loaded first; variables already in the environment win.
func LoadCredentials(envFile string) (Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	creds := Credentials{
		Username: os.Getenv(EnvUsername),
		Password: os.Getenv(EnvPassword),
	}

	var missing []string
	if creds.Username == "" {
		missing = append(missing, EnvUsername)
	}
	if creds.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		if envFile == "" {
			return Credentials{}, fmt.Errorf("%w: %v must be set in the environment", ErrCredentialsMissing, missing)
		}
		return Credentials{}, fmt.Errorf("%w: %v must be set in the environment or %s", ErrCredentialsMissing, missing, envFile)
	}

	return creds, nil
}
