// Command admin runs the ELAMLI order-management dashboard.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"elamli.org/elamli-admin/internal/admin/config"
	"elamli.org/elamli-admin/internal/admin/httpserver"
	"elamli.org/elamli-admin/internal/admin/httpserver/middleware"
	"elamli.org/elamli-admin/internal/admin/observability"
	"elamli.org/elamli-admin/internal/admin/orders"
	"elamli.org/elamli-admin/internal/admin/session"
	"elamli.org/elamli-admin/internal/admin/settings"
	"elamli.org/elamli-admin/internal/admin/store"
	"elamli.org/elamli-admin/public"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := observability.NewLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		ordersStore   orders.Store
		authenticator middleware.Authenticator
		settingsSvc   settings.Service
	)

	if err := cfg.Firebase.Validate(); err != nil {
		var verr *config.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		logger.Warn("firebase not configured, falling back to in-memory store",
			zap.Strings("missing", verr.Fields()))
		ordersStore = store.NewMemoryStore(nil)
		authenticator = devAuthenticator{}
	} else {
		opts := []option.ClientOption{}
		if cfg.Firebase.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
		}
		app, err := firebase.NewApp(ctx, &firebase.Config{
			ProjectID:   cfg.Firebase.ProjectID,
			DatabaseURL: cfg.Firebase.DatabaseURL,
		}, opts...)
		if err != nil {
			return fmt.Errorf("init firebase app: %w", err)
		}

		rtdb, err := store.NewRTDBStore(ctx, app)
		if err != nil {
			return err
		}
		ordersStore = rtdb

		authClient, err := app.Auth(ctx)
		if err != nil {
			return fmt.Errorf("init firebase auth: %w", err)
		}
		verifier, err := middleware.NewFirebaseTokenVerifier(authClient)
		if err != nil {
			return err
		}
		authenticator = verifier

		identity, err := settings.NewIdentityService(cfg.Firebase.WebAPIKey, "", nil)
		if err != nil {
			return fmt.Errorf("init identity service: %w", err)
		}
		settingsSvc = identity
	}

	ordersService := orders.NewListService(ordersStore, logger.Named("orders"))
	if err := ordersService.Refresh(ctx); err != nil {
		// The dashboard can come up with an empty list and retry per request.
		logger.Warn("initial order refresh failed", zap.Error(err))
	}

	sessionCfg := session.Config{
		HashKey:      cfg.Session.HashKey,
		BlockKey:     cfg.Session.BlockKey,
		CookiePath:   cfg.Server.BasePath,
		CookieSecure: cfg.Session.Secure,
	}
	if len(sessionCfg.HashKey) == 0 {
		// Sessions won't survive restarts without a configured key.
		logger.Warn("SESSION_HASH_KEY not set, generating an ephemeral key")
		sessionCfg.HashKey = randomKey(32)
	}
	sessionManager, err := session.NewManager(sessionCfg)
	if err != nil {
		return fmt.Errorf("init session manager: %w", err)
	}

	staticFS, err := public.StaticFS()
	if err != nil {
		return fmt.Errorf("init static assets: %w", err)
	}

	server, err := httpserver.New(httpserver.Config{
		Address:        cfg.Server.Address,
		BasePath:       cfg.Server.BasePath,
		Authenticator:  authenticator,
		SessionManager: sessionManager,
		Orders:         ordersService,
		Settings:       settingsSvc,
		StaticFS:       staticFS,
		Logger:         logger.Named("http"),
		CookieSecure:   cfg.Session.Secure,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	return server.Run(ctx)
}

// devAuthenticator accepts any token. Only used when Firebase is not
// configured and the server runs against the in-memory store.
type devAuthenticator struct{}

func (devAuthenticator) Authenticate(_ context.Context, _ string) (*middleware.Identity, error) {
	return &middleware.Identity{UID: "dev", Email: "dev@localhost"}, nil
}

func randomKey(n int) []byte {
	key := make([]byte, n)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return key
}
