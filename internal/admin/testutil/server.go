// Package testutil spins up the full admin server against in-memory
// dependencies for HTTP-level tests.
package testutil

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"elamli.org/elamli-admin/internal/admin/httpserver"
	"elamli.org/elamli-admin/internal/admin/httpserver/middleware"
	"elamli.org/elamli-admin/internal/admin/orders"
	"elamli.org/elamli-admin/internal/admin/session"
	"elamli.org/elamli-admin/internal/admin/settings"
	"elamli.org/elamli-admin/internal/admin/store"
)

// StaticAuthenticator accepts any non-empty token and returns a fixed
// identity, letting tests reach authenticated routes without a provider.
type StaticAuthenticator struct {
	Identity middleware.Identity
	Err      error
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, token string) (*middleware.Identity, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	id := a.Identity
	if id.UID == "" {
		id.UID = "test-admin"
	}
	return &id, nil
}

// Server wraps the admin server running on an httptest listener.
type Server struct {
	*httptest.Server
	BasePath string
	Orders   orders.Service
	Store    *store.MemoryStore

	client  *http.Client
	manager *session.Manager
}

// ServerOption customises the test server configuration.
type ServerOption func(*serverConfig)

type serverConfig struct {
	store         *store.MemoryStore
	ordersService orders.Service
	settings      settings.Service
	authenticator middleware.Authenticator
	basePath      string
	now           func() time.Time
}

// WithStore seeds the in-memory backing store.
func WithStore(s *store.MemoryStore) ServerOption {
	return func(cfg *serverConfig) { cfg.store = s }
}

// WithOrdersService overrides the orders service entirely.
func WithOrdersService(svc orders.Service) ServerOption {
	return func(cfg *serverConfig) { cfg.ordersService = svc }
}

// WithSettingsService provides an identity-provider stub.
func WithSettingsService(svc settings.Service) ServerOption {
	return func(cfg *serverConfig) { cfg.settings = svc }
}

// WithAuthenticator overrides the token verifier.
func WithAuthenticator(a middleware.Authenticator) ServerOption {
	return func(cfg *serverConfig) { cfg.authenticator = a }
}

// WithBasePath mounts the dashboard under a custom prefix.
func WithBasePath(path string) ServerOption {
	return func(cfg *serverConfig) { cfg.basePath = path }
}

// WithNow pins the server clock.
func WithNow(now func() time.Time) ServerOption {
	return func(cfg *serverConfig) { cfg.now = now }
}

// NewServer builds and starts an admin server with sane test defaults: an
// empty in-memory store and an authenticator that accepts any token.
func NewServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()

	cfg := serverConfig{
		basePath: "/admin",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.store == nil {
		cfg.store = store.NewMemoryStore(nil)
	}
	if cfg.ordersService == nil {
		svc := orders.NewListService(cfg.store, zap.NewNop())
		require.NoError(t, svc.Refresh(context.Background()))
		cfg.ordersService = svc
	}
	if cfg.authenticator == nil {
		cfg.authenticator = &StaticAuthenticator{}
	}

	manager, err := session.NewManager(session.Config{
		HashKey:  []byte("0123456789abcdef0123456789abcdef"),
		BlockKey: []byte("abcdefghijklmnopqrstuvwxyz123456"),
	})
	require.NoError(t, err)

	srv, err := httpserver.New(httpserver.Config{
		BasePath:       cfg.basePath,
		Authenticator:  cfg.authenticator,
		SessionManager: manager,
		Orders:         cfg.ordersService,
		Settings:       cfg.settings,
		Logger:         zap.NewNop(),
		Now:            cfg.now,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Server{
		Server:   ts,
		BasePath: cfg.basePath,
		Orders:   cfg.ordersService,
		Store:    cfg.store,
		client:   client,
		manager:  manager,
	}
}

// Path joins the base path with a route suffix.
func (s *Server) Path(suffix string) string {
	return s.URL + s.BasePath + suffix
}

// Get issues an authenticated GET using the shared cookie jar.
func (s *Server) Get(t *testing.T, suffix string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, s.Path(suffix), nil)
	require.NoError(t, err)
	s.authorize(req)

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return resp
}

// PostForm issues an authenticated form POST, echoing the CSRF token issued
// on a prior GET.
func (s *Server) PostForm(t *testing.T, suffix string, form url.Values) *http.Response {
	t.Helper()

	if form == nil {
		form = url.Values{}
	}
	if token := s.csrfToken(t); token != "" && form.Get("csrf_token") == "" {
		form.Set("csrf_token", token)
	}

	req, err := http.NewRequest(http.MethodPost, s.Path(suffix), strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	s.authorize(req)

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return resp
}

// Session decodes the session cookie held in the jar so tests can assert
// what the server persisted for the browser.
func (s *Server) Session(t *testing.T) *session.Session {
	t.Helper()

	base, err := url.Parse(s.URL + "/")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, base.String(), nil)
	require.NoError(t, err)
	for _, c := range s.client.Jar.Cookies(base) {
		req.AddCookie(c)
	}

	sess, err := s.manager.Load(req)
	require.NoError(t, err)
	return sess
}

func (s *Server) authorize(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: "idToken", Value: "test-token"})
}

func (s *Server) csrfToken(t *testing.T) string {
	t.Helper()

	// The CSRF cookie is scoped to the base path, so the jar lookup has to
	// use a URL underneath it.
	base, err := url.Parse(s.URL + s.BasePath + "/")
	require.NoError(t, err)

	for _, c := range s.client.Jar.Cookies(base) {
		if c.Name == middleware.CSRFCookieName {
			return c.Value
		}
	}

	// No token yet; prime the jar with a GET.
	resp := s.Get(t, "/")
	resp.Body.Close()
	for _, c := range s.client.Jar.Cookies(base) {
		if c.Name == middleware.CSRFCookieName {
			return c.Value
		}
	}
	return ""
}
