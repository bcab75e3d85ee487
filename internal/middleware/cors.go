// Package middleware provides HTTP middleware for the law assistant API.
package middleware

import (
	"net/http"

	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/identity"
)

// CORS returns middleware that handles CORS headers for the API.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, o := range allowedOrigins {
				if o != "*" && o != origin {
					continue
				}
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+identity.SessionHeaderName)
				// Credentials only for explicit origins: echoing a wildcard
				// match with Allow-Credentials set enables CSRF.
				if o != "*" {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				break
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
