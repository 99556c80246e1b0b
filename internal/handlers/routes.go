package handlers

import (
	"net/http"

	"github.com/charlesking86/link-shortener/internal/middleware"
	"github.com/charlesking86/link-shortener/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the redirect pipeline on the router. The
// pipeline stays on plain chi handlers because its responses are
// redirects and HTML pages, not JSON operations.
func RegisterRoutes(
	router chi.Router,
	redirect *RedirectHandler,
	limiter ratelimit.Limiter,
	logger *zap.Logger,
) {
	router.Get("/", redirect.Dashboard)
	router.Get("/favicon.ico", redirect.Dashboard)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimiter(limiter, logger))
		r.Method(http.MethodGet, "/{slug}", http.HandlerFunc(redirect.Redirect))
		r.Method(http.MethodPost, "/{slug}", http.HandlerFunc(redirect.Redirect))
	})
}
