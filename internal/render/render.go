// Package render turns policy decisions into concrete HTTP responses:
// redirects, HTML interstitials, and the error pages.
package render

import (
	"fmt"
	"net/http"

	"github.com/charlesking86/link-shortener/internal/link"
	"github.com/charlesking86/link-shortener/internal/policy"
	"go.uber.org/zap"
)

// interstitialDelayMS is how long the tracking page waits before
// navigating, so pixels get a chance to fire.
const interstitialDelayMS = 800

const contentTypeHTML = "text/html; charset=utf-8"

// Renderer writes response shapes for the redirect pipeline.
// Template failures are logged and degrade to a plain redirect so the
// visitor still reaches the destination.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Write renders the decision for the given slug.
func (rd *Renderer) Write(w http.ResponseWriter, d policy.Decision, slug string) {
	switch d.Kind {
	case policy.KindRedirect:
		rd.Redirect(w, d.TargetURL, d.Status)
	case policy.KindExpired:
		rd.Expired(w)
	case policy.KindSocialPreview:
		rd.SocialPreview(w, d.Social)
	case policy.KindPasswordForm:
		rd.PasswordForm(w, slug, d.PasswordError)
	case policy.KindCloak:
		rd.Cloak(w, d.TargetURL)
	case policy.KindInterstitial:
		rd.Interstitial(w, d.TargetURL, d.Tracking)
	default:
		rd.ServerError(w)
	}
}

// Redirect issues a Location redirect with the given status.
func (rd *Renderer) Redirect(w http.ResponseWriter, url string, status int) {
	w.Header().Set("Location", url)
	w.WriteHeader(status)
}

// Expired writes the 410 page.
func (rd *Renderer) Expired(w http.ResponseWriter) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusGone)

	if err := expiredTmpl.Execute(w, nil); err != nil {
		rd.logger.Error("failed to render expired page", zap.Error(err))
	}
}

// PasswordForm writes the password prompt, with an error line when
// the previous attempt failed.
func (rd *Renderer) PasswordForm(w http.ResponseWriter, slug string, wrongPassword bool) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)

	data := struct {
		Slug          string
		WrongPassword bool
	}{Slug: slug, WrongPassword: wrongPassword}

	if err := passwordTmpl.Execute(w, data); err != nil {
		rd.logger.Error("failed to render password form", zap.Error(err))
	}
}

// SocialPreview writes the crawler-facing meta page.
func (rd *Renderer) SocialPreview(w http.ResponseWriter, tags link.SocialTags) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)

	if err := socialTmpl.Execute(w, tags); err != nil {
		rd.logger.Error("failed to render social preview", zap.Error(err))
	}
}

// Cloak writes the iframe wrapper page embedding the destination.
func (rd *Renderer) Cloak(w http.ResponseWriter, targetURL string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)

	data := struct{ TargetURL string }{TargetURL: targetURL}

	if err := cloakTmpl.Execute(w, data); err != nil {
		rd.logger.Error("failed to render cloak page", zap.Error(err))
	}
}

// Interstitial writes the timed tracking page that fires the
// configured pixels before navigating to the destination.
func (rd *Renderer) Interstitial(w http.ResponseWriter, targetURL string, tracking link.TrackingIDs) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)

	data := struct {
		TargetURL string
		GA4       string
		FBPixel   string
		AdRoll    string
		DelayMS   int
	}{
		TargetURL: targetURL,
		GA4:       tracking.GA4,
		FBPixel:   tracking.FBPixel,
		AdRoll:    tracking.AdRoll,
		DelayMS:   interstitialDelayMS,
	}

	if err := interstitialTmpl.Execute(w, data); err != nil {
		rd.logger.Error("failed to render interstitial", zap.Error(err))
	}
}

// NotFound writes the 404 body naming the missing slug.
func (rd *Renderer) NotFound(w http.ResponseWriter, slug string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "Link not found: %s\n", slug)
}

// ServerError writes a sanitized 500. The underlying error is logged
// by the caller, never echoed to the visitor.
func (rd *Renderer) ServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintln(w, "Something went wrong. Please try again later.")
}
