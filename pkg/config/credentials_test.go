package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentials_FromEnvironment(t *testing.T) {
	t.Setenv(EnvUsername, "test@example.com")
	t.Setenv(EnvPassword, "test_password")

	creds, err := LoadCredentials("")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", creds.Username)
	assert.Equal(t, "test_password", creds.Password)
}

func TestLoadCredentials_FromEnvFile(t *testing.T) {
	// t.Setenv restores the variables; the empty values are then cleared so
	// godotenv is allowed to set them
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPassword, "")
	os.Unsetenv(EnvUsername)
	os.Unsetenv(EnvPassword)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TRELLO_USERNAME=file@example.com\nTRELLO_PASSWORD=from-file\n"), 0600))

	creds, err := LoadCredentials(envFile)
	require.NoError(t, err)
	assert.Equal(t, "file@example.com", creds.Username)
	assert.Equal(t, "from-file", creds.Password)
}

func TestLoadCredentials_EnvironmentWinsOverFile(t *testing.T) {
	t.Setenv(EnvUsername, "env@example.com")
	t.Setenv(EnvPassword, "env-password")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TRELLO_USERNAME=file@example.com\nTRELLO_PASSWORD=from-file\n"), 0600))

	creds, err := LoadCredentials(envFile)
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", creds.Username)
}

func TestLoadCredentials_Missing(t *testing.T) {
	t.Setenv(EnvUsername, "someone@example.com")
	t.Setenv(EnvPassword, "")

	_, err := LoadCredentials(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentialsMissing)
	assert.Contains(t, err.Error(), EnvPassword)
	assert.NotContains(t, err.Error(), EnvUsername)
}

func TestCredentials_StringRedactsPassword(t *testing.T) {
	creds := Credentials{Username: "test@example.com", Password: "s3cret"}
	assert.NotContains(t, creds.String(), "s3cret")
	assert.Contains(t, creds.String(), "test@example.com")
}
