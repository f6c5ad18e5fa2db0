// Package httpserver wires the admin dashboard routes, middleware stack and
// HTTP server lifecycle.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"elamli.org/elamli-admin/internal/admin/httpserver/middleware"
	"elamli.org/elamli-admin/internal/admin/orders"
	"elamli.org/elamli-admin/internal/admin/session"
	"elamli.org/elamli-admin/internal/admin/settings"
	"elamli.org/elamli-admin/internal/admin/templates"
)

// Config carries everything the server needs to run.
type Config struct {
	Address  string
	BasePath string

	Authenticator  middleware.Authenticator
	SessionManager *session.Manager
	Orders         orders.Service
	Settings       settings.Service
	StaticFS       fs.FS
	Logger         *zap.Logger

	CookieSecure bool

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Now overrides the clock, used by tests to pin statistics windows.
	Now func() time.Time
}

// Server is the admin dashboard HTTP server.
type Server struct {
	cfg      Config
	logger   *zap.Logger
	renderer *templates.Renderer
	handlers *handlers
	http     *http.Server
}

// New builds the router and returns a ready-to-run server.
func New(cfg Config) (*Server, error) {
	if cfg.Orders == nil {
		return nil, errors.New("httpserver: orders service is required")
	}
	if cfg.SessionManager == nil {
		return nil, errors.New("httpserver: session manager is required")
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/admin"
	}
	if cfg.Address == "" {
		cfg.Address = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	renderer, err := templates.New()
	if err != nil {
		return nil, fmt.Errorf("init templates: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		renderer: renderer,
	}
	s.handlers = &handlers{
		renderer: renderer,
		orders:   cfg.Orders,
		settings: cfg.Settings,
		basePath: cfg.BasePath,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}

	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Handler exposes the router, used by tests via httptest.Server.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) loginPath() string { return s.cfg.BasePath + "/login" }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Route(s.cfg.BasePath, func(r chi.Router) {
		r.Use(middleware.Session(s.cfg.SessionManager))
		r.Use(middleware.CSRF(middleware.CSRFConfig{
			CookieSecure: s.cfg.CookieSecure,
			CookiePath:   s.cfg.BasePath,
		}))

		if s.cfg.StaticFS != nil {
			r.Handle("/static/*", http.StripPrefix(s.cfg.BasePath+"/static/", http.FileServerFS(s.cfg.StaticFS)))
		}

		r.Get("/login", s.handlers.loginPage)
		r.Post("/login", s.handlers.login)
		r.Post("/logout", s.handlers.logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(middleware.AuthConfig{
				Authenticator: s.cfg.Authenticator,
				LoginPath:     s.loginPath(),
			}))

			r.Get("/", s.handlers.dashboard)
			r.Get("/orders", s.handlers.ordersPage)
			r.Get("/orders/table", s.handlers.ordersTable)
			r.Post("/orders/{orderID}/status", s.handlers.updateOrderStatus)
			r.Get("/statistics", s.handlers.statisticsPage)
			r.Get("/statistics/report.pdf", s.handlers.statisticsReport)
			r.Get("/settings", s.handlers.settingsPage)
			r.Post("/settings/password", s.handlers.changePassword)
		})
	})

	// Everything outside the base path lands on the dashboard.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, s.cfg.BasePath+"/", http.StatusSeeOther)
	})

	return r
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("admin server listening",
			zap.String("addr", s.cfg.Address),
			zap.String("basePath", s.cfg.BasePath))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("admin server stopped")
	return nil
}
