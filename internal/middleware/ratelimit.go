// Package middleware holds the chi middleware for the redirect routes.
package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/charlesking86/link-shortener/internal/classify"
	"github.com/charlesking86/link-shortener/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter limits requests keyed by client IP and User-Agent.
// Limiter errors fail open: a broken limiter should not take the
// redirect path down with it.
func RateLimiter(limiter ratelimit.Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Error("rate limiter failure", zap.Error(err))
				next.ServeHTTP(w, r)

				return
			}

			if !allowed {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey fingerprints a client by IP and User-Agent.
func clientKey(r *http.Request) string {
	hash := sha256.Sum256([]byte(classify.ClientIP(r) + "|" + r.UserAgent()))

	return hex.EncodeToString(hash[:])
}
