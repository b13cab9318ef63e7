package web

import (
	"net/http"
	"strings"
)

func WwwRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if host, ok := strings.CutPrefix(r.Host, "www."); ok {
			target := "https://" + host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeadersMiddleware sets the page CSP. coverHost is the origin
// uploaded covers are served from and may be empty.
func SecurityHeadersMiddleware(coverHost string) func(http.Handler) http.Handler {
	csp := "default-src 'self'; " +
		"connect-src 'self'; " +
		"img-src 'self' data:" + prefixSpace(coverHost) + "; " +
		"script-src 'self'; " +
		"style-src 'self' 'unsafe-inline' https://rsms.me; " +
		"font-src 'self' data: https://rsms.me; " +
		"frame-ancestors 'none';"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Content-Security-Policy", csp)

			next.ServeHTTP(w, r)
		})
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

func StaticCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=2628000, immutable")
		next.ServeHTTP(w, r)
	})
}
