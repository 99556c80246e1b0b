package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charlesking86/link-shortener/internal/analytics"
	"github.com/charlesking86/link-shortener/internal/handlers"
	"github.com/charlesking86/link-shortener/internal/link"
	"github.com/charlesking86/link-shortener/internal/messaging"
	"github.com/charlesking86/link-shortener/internal/policy"
	"github.com/charlesking86/link-shortener/internal/ratelimit"
	"github.com/charlesking86/link-shortener/internal/render"
	"github.com/charlesking86/link-shortener/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const dashboardURL = "https://dash.example.com"

// capturingPublish collects published click events.
type capturingPublish struct {
	mu     sync.Mutex
	events []*analytics.ClickEvent
	err    error
}

func (c *capturingPublish) publish(event *analytics.ClickEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.events = append(c.events, event)

	return nil
}

func (c *capturingPublish) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.events)
}

// failingRepo simulates a store transport failure.
type failingRepo struct{}

func (failingRepo) Lookup(context.Context, string, string) (*link.Link, error) {
	return nil, errors.New("pgx: connection refused to 10.0.0.5:5432")
}

func (failingRepo) IncrementClicks(context.Context, string) error {
	return errors.New("pgx: connection refused")
}

func strPtr(s string) *string { return &s }

func newRouter(repo link.Repository, publish messaging.Publish[analytics.ClickEvent]) (*chi.Mux, *handlers.RedirectHandler) {
	logger := zap.NewNop()
	h := handlers.NewRedirectHandler(
		repo,
		policy.NewEvaluator(func() float64 { return 99 }),
		render.NewRenderer(logger),
		publish,
		dashboardURL,
		logger,
	)

	router := chi.NewMux()
	handlers.RegisterRoutes(router, h, ratelimit.Unlimited{}, logger)

	return router, h
}

func seededStore() *store.MemoryStore {
	mem := store.NewMemoryStore()
	mem.Add(&link.Link{
		ID:       "11111111-1111-1111-1111-111111111111",
		Slug:     "promo",
		Original: "https://example.com/landing",
	})

	return mem
}

// drain waits for fire-and-forget click goroutines to finish.
func drain(t *testing.T, h *handlers.RedirectHandler) {
	t.Helper()
	require.NoError(t, h.Shutdown())
}

func TestRedirect_KnownSlug(t *testing.T) {
	capture := &capturingPublish{}
	router, h := newRouter(seededStore(), capture.publish)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/promo", nil))

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://example.com/landing", w.Header().Get("Location"))

	drain(t, h)
	assert.Equal(t, 1, capture.count())
	assert.Equal(t, "promo", capture.events[0].Slug)
}

func TestRedirect_UnknownSlug(t *testing.T) {
	capture := &capturingPublish{}
	router, h := newRouter(seededStore(), capture.publish)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "nope")

	drain(t, h)
	assert.Zero(t, capture.count(), "not-found must not record a click")
}

func TestRedirect_DashboardRoutes(t *testing.T) {
	router, _ := newRouter(seededStore(), (&capturingPublish{}).publish)

	for _, path := range []string{"/", "/favicon.ico"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusMovedPermanently, w.Code)
			assert.Equal(t, dashboardURL, w.Header().Get("Location"))
		})
	}
}

func TestRedirect_StoreError(t *testing.T) {
	capture := &capturingPublish{}
	router, h := newRouter(failingRepo{}, capture.publish)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/promo", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pgx", "store errors must be sanitized")
	assert.NotContains(t, w.Body.String(), "10.0.0.5")

	drain(t, h)
	assert.Zero(t, capture.count())
}

func TestRedirect_DomainScoping(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Add(&link.Link{
		ID:       "1",
		Slug:     "promo",
		Original: "https://example.com/default",
	})
	mem.Add(&link.Link{
		ID:       "2",
		Slug:     "promo",
		Domain:   strPtr("sho.rt"),
		Original: "https://example.com/scoped",
	})

	router, _ := newRouter(mem, (&capturingPublish{}).publish)

	t.Run("exact domain match wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/promo", nil)
		r.Host = "sho.rt"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, "https://example.com/scoped", w.Header().Get("Location"))
	})

	t.Run("other hosts fall back to the domain-less record", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/promo", nil)
		r.Host = "other.example"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, "https://example.com/default", w.Header().Get("Location"))
	})
}

func TestRedirect_PasswordFlow(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Add(&link.Link{
		ID:       "1",
		Slug:     "secret",
		Original: "https://example.com/hidden",
		Password: strPtr("hunter2"),
	})

	capture := &capturingPublish{}
	router, h := newRouter(mem, capture.publish)

	postForm := func(password string) *httptest.ResponseRecorder {
		form := url.Values{"password": {password}}
		r := httptest.NewRequest(http.MethodPost, "/secret", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		return w
	}

	t.Run("GET shows the form without the destination", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secret", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="password"`)
		assert.NotContains(t, w.Body.String(), "example.com/hidden")
		assert.Empty(t, w.Header().Get("Location"))
	})

	t.Run("wrong password re-renders with error", func(t *testing.T) {
		w := postForm("wrong")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Incorrect password")
		assert.Empty(t, w.Header().Get("Location"))
	})

	t.Run("correct password redirects", func(t *testing.T) {
		w := postForm("hunter2")

		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "https://example.com/hidden", w.Header().Get("Location"))
	})

	drain(t, h)
	assert.Equal(t, 1, capture.count(), "only the successful unlock records a click")
}

func TestRedirect_BotPreview(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Add(&link.Link{
		ID:       "1",
		Slug:     "campaign",
		Original: "https://example.com/landing",
		Password: strPtr("hunter2"),
		Social:   &link.SocialTags{Title: "Spring Campaign", Image: "https://example.com/og.png"},
	})

	capture := &capturingPublish{}
	router, h := newRouter(mem, capture.publish)

	r := httptest.NewRequest(http.MethodGet, "/campaign", nil)
	r.Header.Set("User-Agent", "Twitterbot/1.0")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Spring Campaign")
	assert.NotContains(t, body, "example.com/landing")
	assert.NotContains(t, body, "password")

	drain(t, h)
	assert.Zero(t, capture.count(), "bot previews do not record clicks")
}

func TestRedirect_Cloaking(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Add(&link.Link{
		ID:       "1",
		Slug:     "wrapped",
		Original: "https://example.com/landing",
		Cloaking: true,
	})

	router, h := newRouter(mem, (&capturingPublish{}).publish)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wrapped", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), `<iframe src="https://example.com/landing"`)

	drain(t, h)
}

func TestRedirect_StatusOverride(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Add(&link.Link{
		ID:         "1",
		Slug:       "temp",
		Original:   "https://example.com/landing",
		HTTPStatus: http.StatusFound,
	})

	router, h := newRouter(mem, (&capturingPublish{}).publish)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/temp", nil))

	assert.Equal(t, http.StatusFound, w.Code)

	drain(t, h)
}

func TestRedirect_PublishFailureDoesNotAffectResponse(t *testing.T) {
	capture := &capturingPublish{err: errors.New("stream unavailable")}
	router, h := newRouter(seededStore(), capture.publish)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/promo", nil))

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://example.com/landing", w.Header().Get("Location"))

	drain(t, h)
}

func TestRedirect_LegacyCounterIncrement(t *testing.T) {
	mem := seededStore()
	router, h := newRouter(mem, (&capturingPublish{}).publish)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/promo", nil))

	require.Equal(t, http.StatusMovedPermanently, w.Code)
	drain(t, h)

	rec, err := mem.Lookup(context.Background(), "promo", "any.example")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Clicks)
}

func TestRedirect_Idempotence(t *testing.T) {
	router, h := newRouter(seededStore(), (&capturingPublish{}).publish)

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/promo", nil))

		return w
	}

	first := get()
	second := get()

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Header().Get("Location"), second.Header().Get("Location"))

	drain(t, h)
}

func TestRedirect_ClickEventPayload(t *testing.T) {
	capture := &capturingPublish{}
	router, h := newRouter(seededStore(), capture.publish)

	r := httptest.NewRequest(http.MethodGet, "/promo", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 14) Mobile Safari/537.36")
	r.Header.Set("CF-IPCountry", "DE")
	r.Header.Set("Referer", "https://news.example.org/article")
	r.Header.Set("X-Forwarded-For", "203.0.113.9")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusMovedPermanently, w.Code)

	drain(t, h)
	require.Equal(t, 1, capture.count())

	event := capture.events[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", event.LinkID)
	assert.Equal(t, "DE", event.Country)
	assert.Equal(t, "mobile", event.Device)
	assert.Equal(t, "https://news.example.org/article", event.Referrer)
	assert.Equal(t, "203.0.113.9", event.IP)
	assert.WithinDuration(t, time.Now(), event.ClickedAt, time.Minute)
}
