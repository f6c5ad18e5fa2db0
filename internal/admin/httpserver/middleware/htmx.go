package middleware

import "net/http"

// IsHTMXRequest reports whether the request was issued by htmx. Boosted
// navigations are treated as full page loads.
func IsHTMXRequest(r *http.Request) bool {
	if r.Header.Get("HX-Request") != "true" {
		return false
	}
	return r.Header.Get("HX-Boosted") != "true"
}
