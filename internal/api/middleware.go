package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ch1kulya/logger"
)

// ServiceToken reports whether the request carries the configured
// X-Service-Token. An empty token never matches.
func ServiceToken(apiToken string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		clientToken := r.Header.Get("X-Service-Token")
		return apiToken != "" && subtle.ConstantTimeCompare([]byte(clientToken), []byte(apiToken)) == 1
	}
}

func CorsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	if allowedOrigin == "" {
		logger.Warn("ALLOWED_ORIGIN is not set!")
		allowedOrigin = "*"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Service-Token")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CacheMiddleware lets shared caches keep catalog reads for five minutes.
// Shuffled listings and comment threads must not be cached.
func CacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if r.URL.Query().Get("sort") == "shuffle" || strings.HasSuffix(r.URL.Path, "/comments") {
				w.Header().Set("Cache-Control", "no-store")
			} else {
				w.Header().Set("Cache-Control", "public, max-age=300")
			}
		}
		next.ServeHTTP(w, r)
	})
}
