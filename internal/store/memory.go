package store

import (
	"context"
	"sync"

	"github.com/charlesking86/link-shortener/internal/link"
)

// MemoryStore is an in-memory implementation of link.Repository,
// used in tests and local runs without Postgres.
type MemoryStore struct {
	mu    sync.RWMutex
	links []*link.Link
}

// NewMemoryStore creates an empty in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add registers a record. Later additions do not shadow earlier ones;
// precedence follows the same domain tie-break as the SQL store.
func (m *MemoryStore) Add(rec *link.Link) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links = append(m.links, rec)
}

// Lookup mirrors the Postgres tie-break: an exact domain match beats
// a domain-less record.
func (m *MemoryStore) Lookup(_ context.Context, slug, host string) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var fallback *link.Link

	for _, rec := range m.links {
		if rec.Slug != slug {
			continue
		}

		switch {
		case rec.Domain != nil && *rec.Domain == host:
			copied := *rec

			return &copied, nil
		case rec.Domain == nil && fallback == nil:
			fallback = rec
		}
	}

	if fallback == nil {
		return nil, link.ErrNotFound
	}

	copied := *fallback

	return &copied, nil
}

func (m *MemoryStore) IncrementClicks(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.links {
		if rec.Slug == slug {
			rec.Clicks++
		}
	}

	return nil
}

// Compile-time check.
var _ link.Repository = (*MemoryStore)(nil)
