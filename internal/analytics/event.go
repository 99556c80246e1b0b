package analytics

import "time"

// TopicLinkClicked is the stream topic for click events.
const TopicLinkClicked = "link.clicked"

// ClickEvent is one recorded visit to a short link. Append-only: the
// redirect pipeline writes these and never reads them back.
type ClickEvent struct {
	ID        string    `json:"id"`
	LinkID    string    `json:"linkId"`
	Slug      string    `json:"slug"`
	Country   string    `json:"country,omitempty"`
	City      string    `json:"city,omitempty"`
	Region    string    `json:"region,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Device    string    `json:"device"`
	Referrer  string    `json:"referrer,omitempty"`
	IP        string    `json:"ip,omitempty"`
	ClickedAt time.Time `json:"clickedAt"`
}
