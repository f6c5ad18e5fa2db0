// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

const (
	defaultAddress      = ":8080"
	defaultBasePath     = "/admin"
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Firebase FirebaseConfig
	Session  SessionConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address      string
	BasePath     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FirebaseConfig stores Firebase project settings.
type FirebaseConfig struct {
	ProjectID       string
	DatabaseURL     string
	WebAPIKey       string
	CredentialsFile string
}

// SessionConfig holds the cookie signing material.
type SessionConfig struct {
	HashKey  []byte
	BlockKey []byte
	Secure   bool
}

// Load reads configuration from the environment, applying defaults for
// optional values. Validation of the Firebase group is separate so local
// development can run without a configured project.
func Load() Config {
	cfg := Config{
		Server: ServerConfig{
			Address:      getEnv("ADMIN_HTTP_ADDR", defaultAddress),
			BasePath:     getEnv("ADMIN_BASE_PATH", defaultBasePath),
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		Firebase: FirebaseConfig{
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			DatabaseURL:     os.Getenv("FIREBASE_DATABASE_URL"),
			WebAPIKey:       os.Getenv("FIREBASE_WEB_API_KEY"),
			CredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		},
		Session: SessionConfig{
			HashKey:  []byte(os.Getenv("SESSION_HASH_KEY")),
			BlockKey: keyOrNil(os.Getenv("SESSION_BLOCK_KEY")),
			Secure:   strings.EqualFold(os.Getenv("SESSION_COOKIE_SECURE"), "true"),
		},
	}
	return cfg
}

// Validate checks the Firebase group required for production operation.
func (c FirebaseConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ProjectID) == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		missing = append(missing, "FIREBASE_DATABASE_URL")
	}
	if strings.TrimSpace(c.WebAPIKey) == "" {
		missing = append(missing, "FIREBASE_WEB_API_KEY")
	}
	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

// ValidationError lists the missing or invalid configuration fields.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	fields := append([]string(nil), e.fields...)
	sort.Strings(fields)
	return fmt.Sprintf("config: missing required fields: %s", strings.Join(fields, ", "))
}

// Fields returns the missing field names.
func (e *ValidationError) Fields() []string {
	return append([]string(nil), e.fields...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func keyOrNil(value string) []byte {
	if value == "" {
		return nil
	}
	return []byte(value)
}
