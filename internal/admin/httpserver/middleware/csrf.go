package middleware

import (
	"crypto/subtle"
	"net/http"
)

const (
	// CSRFHeaderName is the request header checked for the CSRF token on
	// mutating requests.
	CSRFHeaderName = "X-CSRF-Token"
	// CSRFFormField is the form field checked when the header is absent.
	CSRFFormField = "csrf_token"
	// CSRFCookieName carries the double-submit copy of the session token.
	CSRFCookieName = "elamli_csrf"
)

// CSRFConfig tunes the CSRF middleware.
type CSRFConfig struct {
	CookieSecure bool
	CookiePath   string
}

// CSRF implements double-submit cookie protection. Safe methods pass
// through after the cookie is refreshed; mutating methods must echo the
// session token via header or form field.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	path := cfg.CookiePath
	if path == "" {
		path = "/"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			token, err := sess.EnsureCSRFToken()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     CSRFCookieName,
				Value:    token,
				Path:     path,
				Secure:   cfg.CookieSecure,
				HttpOnly: false,
				SameSite: http.SameSiteLaxMode,
			})

			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			presented := r.Header.Get(CSRFHeaderName)
			if presented == "" {
				presented = r.PostFormValue(CSRFFormField)
			}
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				http.Error(w, "invalid CSRF token", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
