// internal/httpapi/middleware.go
//
// Request middleware local to this package.  General-purpose pieces
// (RealIP, Recoverer) come from chi; only storefront-specific behavior
// lives here.
package httpapi

import "net/http"

// forceHTTPS permanently redirects plain-HTTP requests.  TLS termination
// usually happens at the edge, so the X-Forwarded-Proto header counts as
// HTTPS too.
func forceHTTPS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, r)
	})
}
