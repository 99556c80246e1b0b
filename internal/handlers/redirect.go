package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charlesking86/link-shortener/internal/analytics"
	"github.com/charlesking86/link-shortener/internal/classify"
	"github.com/charlesking86/link-shortener/internal/link"
	"github.com/charlesking86/link-shortener/internal/messaging"
	"github.com/charlesking86/link-shortener/internal/policy"
	"github.com/charlesking86/link-shortener/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// lookupTimeout bounds the store read on the hot path.
	lookupTimeout = 3 * time.Second

	// recordTimeout bounds each fire-and-forget analytics write.
	recordTimeout = 5 * time.Second

	// drainTimeout caps how long shutdown waits for in-flight
	// analytics goroutines.
	drainTimeout = 10 * time.Second
)

// RedirectHandler resolves slugs and runs the policy pipeline.
type RedirectHandler struct {
	links        link.Repository
	evaluator    *policy.Evaluator
	renderer     *render.Renderer
	publishClick messaging.Publish[analytics.ClickEvent]
	dashboardURL string
	logger       *zap.Logger
	wg           sync.WaitGroup
}

// NewRedirectHandler creates a redirect handler.
func NewRedirectHandler(
	links link.Repository,
	evaluator *policy.Evaluator,
	renderer *render.Renderer,
	publishClick messaging.Publish[analytics.ClickEvent],
	dashboardURL string,
	logger *zap.Logger,
) *RedirectHandler {
	return &RedirectHandler{
		links:        links,
		evaluator:    evaluator,
		renderer:     renderer,
		publishClick: publishClick,
		dashboardURL: dashboardURL,
		logger:       logger,
	}
}

// Dashboard sends slug-less and favicon requests to the dashboard.
func (h *RedirectHandler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	h.renderer.Redirect(w, h.dashboardURL, http.StatusMovedPermanently)
}

// Redirect handles GET and POST /{slug}: lookup, classification,
// policy evaluation, rendering, and fire-and-forget click recording.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic during redirect evaluation",
				zap.String("slug", slug),
				zap.Any("panic", rec),
			)
			h.renderer.ServerError(w)
		}
	}()

	if slug == "" || slug == "favicon.ico" {
		h.Dashboard(w, r)

		return
	}

	host := classify.Hostname(r)

	ctx, cancel := context.WithTimeout(r.Context(), lookupTimeout)
	defer cancel()

	rec, err := h.links.Lookup(ctx, slug, host)
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			h.renderer.NotFound(w, slug)

			return
		}

		h.logger.Error("link lookup failed",
			zap.String("slug", slug),
			zap.String("host", host),
			zap.Error(err),
		)
		h.renderer.ServerError(w)

		return
	}

	visitor := classify.Classify(r)

	var submitted string
	if r.Method == http.MethodPost {
		submitted = r.PostFormValue("password")
	}

	decision := h.evaluator.Evaluate(policy.Request{
		Link:     rec,
		Visitor:  visitor,
		Method:   r.Method,
		Password: submitted,
		Now:      time.Now(),
	})

	if decision.RecordClick {
		h.recordClick(rec, visitor)
	}

	h.renderer.Write(w, decision, slug)
}

// recordClick schedules the click event publish and the legacy
// counter increment in the background. Neither blocks the response;
// each failure is logged independently and swallowed.
func (h *RedirectHandler) recordClick(rec *link.Link, visitor classify.Visitor) {
	event := &analytics.ClickEvent{
		ID:        uuid.NewString(),
		LinkID:    rec.ID,
		Slug:      rec.Slug,
		Country:   visitor.Country,
		City:      visitor.City,
		Region:    visitor.Region,
		UserAgent: visitor.UserAgent,
		Device:    string(visitor.Device),
		Referrer:  visitor.Referrer,
		IP:        visitor.IP,
		ClickedAt: time.Now().UTC(),
	}

	h.wg.Add(1)

	go func() {
		defer h.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := h.publishClick(event); err != nil {
			h.logger.Error("failed to publish click event",
				zap.String("slug", event.Slug),
				zap.Error(err),
			)
		}

		if err := h.links.IncrementClicks(ctx, event.Slug); err != nil {
			h.logger.Error("failed to increment click counter",
				zap.String("slug", event.Slug),
				zap.Error(err),
			)
		}
	}()
}

// Shutdown waits for in-flight click recordings to finish, up to
// drainTimeout.
func (h *RedirectHandler) Shutdown() error {
	done := make(chan struct{})

	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(drainTimeout):
		return errors.New("timed out draining click recorders")
	}
}
