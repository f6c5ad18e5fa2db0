// Package settings talks to the external identity provider on behalf of the
// authenticated admin: sign-in, account details, and password changes.
package settings

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned when the provider rejects the
	// supplied email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotConfigured indicates the settings service dependency has not
	// been provided.
	ErrNotConfigured = errors.New("settings service not configured")
)

// Service exposes identity-provider operations used by the admin UI.
type Service interface {
	// SignIn exchanges an email/password pair for an ID token.
	SignIn(ctx context.Context, email, password string) (SignInResult, error)

	// Account returns profile details for the holder of the ID token.
	Account(ctx context.Context, idToken string) (Account, error)

	// ChangePassword re-authenticates with the current password and then
	// sets the new one. The caller validates length and confirmation.
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}

// SignInResult carries the provider tokens issued for a successful login.
type SignInResult struct {
	IDToken      string
	RefreshToken string
	UID          string
	Email        string
	ExpiresIn    time.Duration
}

// Account is the principal as displayed on the settings page.
type Account struct {
	Email      string
	LastSignIn time.Time
}

// ChangePasswordRequest contains the password-change parameters.
type ChangePasswordRequest struct {
	Email           string
	CurrentPassword string
	NewPassword     string
}
