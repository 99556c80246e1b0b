package policy

import (
	"crypto/subtle"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/charlesking86/link-shortener/internal/classify"
	"github.com/charlesking86/link-shortener/internal/link"
)

// Kind identifies the response shape the renderer must produce.
type Kind string

const (
	// KindRedirect is a plain Location redirect to TargetURL.
	KindRedirect Kind = "redirect"
	// KindExpired is the 410 page for expired or exhausted links.
	KindExpired Kind = "expired"
	// KindSocialPreview is the meta-tag page served to social crawlers.
	KindSocialPreview Kind = "social_preview"
	// KindPasswordForm is the password entry page.
	KindPasswordForm Kind = "password_form"
	// KindCloak embeds TargetURL in an iframe instead of redirecting.
	KindCloak Kind = "cloak"
	// KindInterstitial is the timed pixel-firing page before navigation.
	KindInterstitial Kind = "interstitial"
)

// Request is everything the evaluator needs about one inbound hit.
// It is a plain value so the evaluator stays pure.
type Request struct {
	Link     *link.Link
	Visitor  classify.Visitor
	Method   string
	Password string // submitted form value, only meaningful on POST
	Now      time.Time
}

// Decision is the evaluator's verdict, consumed by the renderer.
type Decision struct {
	Kind      Kind
	TargetURL string
	Status    int

	// PasswordError marks a failed POST so the form re-renders with
	// an error line.
	PasswordError bool

	Social   link.SocialTags
	Tracking link.TrackingIDs

	// RecordClick is set only for outcomes that actually send the
	// visitor toward the destination; terminal gates do not record.
	RecordClick bool
}

// Sampler draws one uniform value in [0,100) for the A/B gate.
type Sampler func() float64

// defaultSplit is the keep-original probability when a test carries
// no explicit split.
const defaultSplit = 50

// Evaluator applies the redirect policy gates in their fixed order.
type Evaluator struct {
	sample Sampler
}

// NewEvaluator creates an evaluator with the given A/B sampler.
// A nil sampler falls back to math/rand.
func NewEvaluator(sample Sampler) *Evaluator {
	if sample == nil {
		sample = func() float64 { return rand.Float64() * 100 }
	}

	return &Evaluator{sample: sample}
}

// Evaluate runs the gate pipeline. Gate order is load-bearing:
// expiration, click limit, bot preview, password, targeting,
// cloak/tracking, redirect. Reordering changes observable behavior.
func (e *Evaluator) Evaluate(req Request) Decision {
	rec := req.Link

	if rec.Expired(req.Now) || rec.LimitReached() {
		return Decision{Kind: KindExpired, Status: http.StatusGone}
	}

	if req.Visitor.IsBot && rec.Social != nil && !rec.Social.Empty() {
		return Decision{
			Kind:   KindSocialPreview,
			Status: http.StatusOK,
			Social: *rec.Social,
		}
	}

	if rec.Password != nil && *rec.Password != "" {
		if req.Method != http.MethodPost {
			return Decision{Kind: KindPasswordForm, Status: http.StatusOK}
		}

		if !passwordMatches(*rec.Password, req.Password) {
			return Decision{
				Kind:          KindPasswordForm,
				Status:        http.StatusOK,
				PasswordError: true,
			}
		}
	}

	target := e.resolveTarget(rec, req.Visitor)

	if rec.Cloaking {
		return Decision{
			Kind:        KindCloak,
			Status:      http.StatusOK,
			TargetURL:   target,
			RecordClick: true,
		}
	}

	if rec.Tracking != nil && !rec.Tracking.Empty() {
		return Decision{
			Kind:        KindInterstitial,
			Status:      http.StatusOK,
			TargetURL:   target,
			Tracking:    *rec.Tracking,
			RecordClick: true,
		}
	}

	return Decision{
		Kind:        KindRedirect,
		Status:      rec.RedirectStatus(),
		TargetURL:   target,
		RecordClick: true,
	}
}

// resolveTarget applies A/B, geo and device targeting. Geo overrides
// the A/B result; device targeting runs only when geo did not match.
func (e *Evaluator) resolveTarget(rec *link.Link, v classify.Visitor) string {
	target := rec.Original

	if rec.ABTest != nil && rec.ABTest.Variation != "" {
		split := defaultSplit
		if rec.ABTest.Split != nil {
			split = *rec.ABTest.Split
		}

		if e.sample() >= float64(split) {
			target = rec.ABTest.Variation
		}
	}

	geoMatched := false

	if v.Country != "" {
		for _, rule := range rec.GeoTargets {
			if rule.Country == v.Country {
				target = rule.URL
				geoMatched = true

				break
			}
		}
	}

	if !geoMatched {
		switch {
		case v.IsAndroid && rec.AndroidURL != nil && *rec.AndroidURL != "":
			target = *rec.AndroidURL
		case v.IsIOS && rec.IOSURL != nil && *rec.IOSURL != "":
			target = *rec.IOSURL
		}
	}

	return target
}

// passwordMatches compares the stored cleartext value against the
// submission in constant time. Storage stays cleartext (dashboard
// owns the schema); the comparison at least avoids the timing leak.
func passwordMatches(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
