// Package auth handles account credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/wildpay/internal/models"
)

// Authenticator registers and verifies accounts.
// PasswordAuthenticator is the only implementation today.
type Authenticator interface {
	// Register creates an account. The credential format depends on the implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching the credentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential rejects credentials that do not meet the implementation's rules.
	ValidateCredential(credential string) error
}
