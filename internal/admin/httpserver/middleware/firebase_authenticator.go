package middleware

import (
	"context"
	"fmt"

	firebaseauth "firebase.google.com/go/v4/auth"
)

// FirebaseTokenVerifier authenticates requests by verifying Firebase ID
// tokens with the Admin SDK.
type FirebaseTokenVerifier struct {
	client *firebaseauth.Client
}

// NewFirebaseTokenVerifier wires a Firebase auth client into the
// Authenticator interface consumed by the Auth middleware.
func NewFirebaseTokenVerifier(client *firebaseauth.Client) (*FirebaseTokenVerifier, error) {
	if client == nil {
		return nil, fmt.Errorf("firebase auth client is required")
	}
	return &FirebaseTokenVerifier{client: client}, nil
}

// Authenticate verifies the ID token and maps it to an Identity.
func (v *FirebaseTokenVerifier) Authenticate(ctx context.Context, token string) (*Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if firebaseauth.IsIDTokenExpired(err) || firebaseauth.IsIDTokenRevoked(err) {
			return nil, &AuthError{Reason: AuthErrorExpiredToken, Err: err}
		}
		return nil, &AuthError{Reason: AuthErrorInvalidToken, Err: err}
	}

	identity := &Identity{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}
