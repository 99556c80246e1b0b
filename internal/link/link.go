package link

import "time"

// GeoTarget routes visitors from one country to an alternate URL.
// Country is an ISO-3166 alpha-2 code; the first matching rule wins.
type GeoTarget struct {
	Country string `json:"country"`
	URL     string `json:"url"`
}

// SocialTags hold the Open Graph / Twitter Card metadata served to
// social crawlers instead of the real destination.
type SocialTags struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Empty reports whether there is nothing worth serving a crawler.
func (s SocialTags) Empty() bool {
	return s.Title == "" && s.Image == ""
}

// TrackingIDs are vendor pixel identifiers. Any non-empty ID forces
// the interstitial response shape so pixels can fire before navigation.
type TrackingIDs struct {
	GA4     string `json:"ga4,omitempty"`
	FBPixel string `json:"fb_pixel,omitempty"`
	AdRoll  string `json:"adroll,omitempty"`
}

// Empty reports whether no tracking vendor is configured.
func (t TrackingIDs) Empty() bool {
	return t.GA4 == "" && t.FBPixel == "" && t.AdRoll == ""
}

// ABTest splits traffic between the original URL and a variation.
// Split is the percent probability (0-100) of keeping the original;
// nil means the default of 50.
type ABTest struct {
	Variation string `json:"variation"`
	Split     *int   `json:"split,omitempty"`
}

// Link is a short-link record as stored by the management dashboard.
// It is read-only from the redirect pipeline's point of view.
type Link struct {
	ID         string
	Slug       string
	Domain     *string // nil scopes the slug to any hostname
	Original   string
	AndroidURL *string
	IOSURL     *string
	Password   *string // stored in cleartext by the dashboard
	ExpiresAt  *time.Time
	GeoTargets []GeoTarget
	Social     *SocialTags
	Tracking   *TrackingIDs
	ABTest     *ABTest
	HTTPStatus int // 301/302/307/308, 0 means default 301
	Cloaking   bool
	ClickLimit *int
	Clicks     int64 // legacy counter, read by the click-limit gate
	CreatedAt  time.Time
}

// DefaultRedirectStatus is used when a record carries no status override.
const DefaultRedirectStatus = 301

// RedirectStatus returns the HTTP status to use for a plain redirect.
func (l *Link) RedirectStatus() int {
	switch l.HTTPStatus {
	case 301, 302, 307, 308:
		return l.HTTPStatus
	default:
		return DefaultRedirectStatus
	}
}

// Expired reports whether the record's expiry has passed at now.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// LimitReached reports whether the legacy click counter has hit the
// configured ceiling. A nil or non-positive limit means unlimited.
func (l *Link) LimitReached() bool {
	return l.ClickLimit != nil && *l.ClickLimit > 0 && l.Clicks >= int64(*l.ClickLimit)
}
