package provision

import (
	"errors"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/challenge"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/config"
)

var (
	// ErrAuthenticationFailed means the login form was submitted but the
	// browser never left the login page.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrWorkspaceNotFound means no workspace locator matched the name.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrVerificationFailed means neither the member list nor a success
	// message confirmed the invitation.
	ErrVerificationFailed = errors.New("invitation verification failed")

	// ErrChallengeDetected is re-exported from the challenge package.
	ErrChallengeDetected = challenge.ErrChallengeDetected

	// ErrCredentialsMissing is re-exported from the config package.
	ErrCredentialsMissing = config.ErrCredentialsMissing
)
