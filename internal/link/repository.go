package link

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record matches a slug/host pair.
var ErrNotFound = errors.New("link not found")

// Repository defines the read side of the link store used by the
// redirect pipeline, plus the legacy counter increment.
type Repository interface {
	// Lookup resolves a slug scoped to the request hostname. Records
	// with a matching domain take precedence over domain-less records.
	Lookup(ctx context.Context, slug, host string) (*Link, error)

	// IncrementClicks bumps the legacy per-link click counter.
	IncrementClicks(ctx context.Context, slug string) error
}
