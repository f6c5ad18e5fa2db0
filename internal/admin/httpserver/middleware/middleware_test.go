package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"elamli.org/elamli-admin/internal/admin/session"
)

type staticAuthenticator struct {
	identity *Identity
	err      error
	lastTok  string
}

func (a *staticAuthenticator) Authenticate(_ context.Context, token string) (*Identity, error) {
	a.lastTok = token
	if a.err != nil {
		return nil, a.err
	}
	return a.identity, nil
}

func newSessionManager(t *testing.T) *session.Manager {
	t.Helper()

	mgr, err := session.NewManager(session.Config{
		HashKey:  []byte("0123456789abcdef0123456789abcdef"),
		BlockKey: []byte("abcdefghijklmnopqrstuvwxyz123456"),
	})
	require.NoError(t, err)
	return mgr
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddlewareStoresSessionInContext(t *testing.T) {
	t.Parallel()

	mgr := newSessionManager(t)

	var seen *session.Session
	handler := Session(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	require.NotEmpty(t, seen.ID())
	require.NotEmpty(t, rec.Result().Cookies())
}

func TestAuthRedirectsWithoutCredential(t *testing.T) {
	t.Parallel()

	mgr := newSessionManager(t)
	handler := Session(mgr)(Auth(AuthConfig{
		Authenticator: &staticAuthenticator{identity: &Identity{UID: "u1"}},
		LoginPath:     "/admin/login",
	})(okHandler()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestAuthHTMXRequestGetsHXRedirect(t *testing.T) {
	t.Parallel()

	mgr := newSessionManager(t)
	handler := Session(mgr)(Auth(AuthConfig{
		Authenticator: &staticAuthenticator{err: errors.New("bad token")},
		LoginPath:     "/admin/login",
	})(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/table", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("Authorization", "Bearer some-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get("HX-Redirect"))
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	t.Parallel()

	auth := &staticAuthenticator{identity: &Identity{UID: "admin-1", Email: "admin@example.com"}}
	mgr := newSessionManager(t)

	var identity *Identity
	handler := Session(mgr)(Auth(AuthConfig{Authenticator: auth, LoginPath: "/admin/login"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ = IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "valid-token", auth.lastTok)
	require.NotNil(t, identity)
	require.Equal(t, "admin-1", identity.UID)
}

func TestAuthFallsBackToTokenCookie(t *testing.T) {
	t.Parallel()

	auth := &staticAuthenticator{identity: &Identity{UID: "admin-1"}}
	mgr := newSessionManager(t)
	handler := Session(mgr)(Auth(AuthConfig{Authenticator: auth, LoginPath: "/admin/login"})(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "idToken", Value: "cookie-token"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cookie-token", auth.lastTok)
}

func TestCSRFBlocksMissingToken(t *testing.T) {
	t.Parallel()

	mgr := newSessionManager(t)
	handler := Session(mgr)(CSRF(CSRFConfig{})(okHandler()))

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/1/status", strings.NewReader("status=shipped"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFAllowsMatchingFormToken(t *testing.T) {
	t.Parallel()

	mgr := newSessionManager(t)
	handler := Session(mgr)(CSRF(CSRFConfig{})(okHandler()))

	// Seed a session and grab the issued CSRF token.
	seed := httptest.NewRecorder()
	handler.ServeHTTP(seed, httptest.NewRequest(http.MethodGet, "/admin", nil))

	var token string
	cookies := seed.Result().Cookies()
	for _, c := range cookies {
		if c.Name == CSRFCookieName {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)

	form := url.Values{"status": {"shipped"}, CSRFFormField: {token}}
	req := httptest.NewRequest(http.MethodPost, "/admin/orders/1/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestIsHTMXRequest(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	require.False(t, IsHTMXRequest(plain))

	htmx := httptest.NewRequest(http.MethodGet, "/", nil)
	htmx.Header.Set("HX-Request", "true")
	require.True(t, IsHTMXRequest(htmx))

	boosted := httptest.NewRequest(http.MethodGet, "/", nil)
	boosted.Header.Set("HX-Request", "true")
	boosted.Header.Set("HX-Boosted", "true")
	require.False(t, IsHTMXRequest(boosted))
}
