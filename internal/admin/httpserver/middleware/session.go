// Package middleware contains the HTTP middleware stack for the admin
// dashboard: session loading, authentication, CSRF protection and HTMX
// request detection.
package middleware

import (
	"context"
	"net/http"

	"elamli.org/elamli-admin/internal/admin/session"
)

type sessionContextKey struct{}

// sessionWriter defers cookie persistence until the handler chain completes
// so downstream handlers can mutate the session freely.
type sessionWriter struct {
	http.ResponseWriter
	manager *session.Manager
	session *session.Session
	saved   bool
}

func (w *sessionWriter) WriteHeader(status int) {
	w.persist()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.persist()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) persist() {
	if w.saved {
		return
	}
	// Saving on every response keeps the idle timer sliding.
	w.saved = true
	_ = w.manager.Save(w.ResponseWriter, w.session)
}

// Session loads the request session and stores it in the request context.
// Expired sessions are replaced with fresh ones so handlers always see a
// valid session object.
func Session(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Load(r)
			if err != nil {
				sess = manager.New()
			}

			sw := &sessionWriter{ResponseWriter: w, manager: manager, session: sess}
			ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.persist()
		})
	}
}

// SessionFromContext returns the session stored by the Session middleware.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*session.Session)
	return sess, ok
}

// MustSession returns the request session or panics. Handlers mounted behind
// the Session middleware may use this accessor.
func MustSession(ctx context.Context) *session.Session {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		panic("middleware: session not present in context")
	}
	return sess
}
