// Package auth handles account registration, credential checks and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/mintsense/internal/models"
)

// Authenticator registers and verifies group owners.
// Participants inside a group never authenticate; only the owning user does.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential reports whether the credential is acceptable for registration.
	ValidateCredential(credential string) error
}
