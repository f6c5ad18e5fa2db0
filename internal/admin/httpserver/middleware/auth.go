package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"elamli.org/elamli-admin/internal/admin/session"
)

// AuthErrorReason classifies authentication failures so the middleware can
// choose an appropriate response.
type AuthErrorReason string

const (
	// AuthErrorMissingToken indicates no credential was presented.
	AuthErrorMissingToken AuthErrorReason = "missing_token"
	// AuthErrorInvalidToken indicates the credential failed verification.
	AuthErrorInvalidToken AuthErrorReason = "invalid_token"
	// AuthErrorExpiredToken indicates the credential is no longer valid.
	AuthErrorExpiredToken AuthErrorReason = "expired_token"
)

// AuthError carries a classified authentication failure.
type AuthError struct {
	Reason AuthErrorReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return string(e.Reason) + ": " + e.Err.Error()
	}
	return string(e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Identity is the verified principal attached to the request context.
type Identity struct {
	UID   string
	Email string
}

// Authenticator verifies a bearer credential and resolves the principal
// behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

type identityContextKey struct{}

// IdentityFromContext returns the identity set by the Auth middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	return id, ok
}

// AuthConfig controls how the Auth middleware resolves credentials and where
// it sends unauthenticated browsers.
type AuthConfig struct {
	Authenticator Authenticator
	LoginPath     string
	// TokenCookies lists cookie names probed for a credential when no
	// Authorization header is present.
	TokenCookies []string
}

// Auth enforces authentication for every request it wraps. Unauthenticated
// page requests are redirected to the login path; HTMX requests get an
// HX-Redirect header instead so the client performs a full navigation.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	cookies := cfg.TokenCookies
	if len(cookies) == 0 {
		cookies = []string{"idToken"}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = cookieToken(r, cookies)
			}
			if token == "" && cfg.Authenticator != nil {
				if sess, ok := SessionFromContext(r.Context()); ok {
					token = sess.IDToken()
				}
			}

			if token == "" {
				unauthenticated(w, r, cfg.LoginPath, &AuthError{Reason: AuthErrorMissingToken})
				return
			}

			if cfg.Authenticator == nil {
				unauthenticated(w, r, cfg.LoginPath, &AuthError{Reason: AuthErrorInvalidToken, Err: errors.New("no authenticator configured")})
				return
			}

			identity, err := cfg.Authenticator.Authenticate(r.Context(), token)
			if err != nil {
				unauthenticated(w, r, cfg.LoginPath, classify(err))
				return
			}

			if sess, ok := SessionFromContext(r.Context()); ok {
				sess.SetUser(&session.User{UID: identity.UID, Email: identity.Email})
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func classify(err error) *AuthError {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return &AuthError{Reason: AuthErrorInvalidToken, Err: err}
}

func unauthenticated(w http.ResponseWriter, r *http.Request, loginPath string, _ *AuthError) {
	// Drop any lingering session state so a stale principal cannot survive
	// a failed verification.
	if sess, ok := SessionFromContext(r.Context()); ok {
		sess.Destroy()
	}

	if loginPath == "" {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", loginPath)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func cookieToken(r *http.Request, names []string) string {
	for _, name := range names {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}
	return ""
}
