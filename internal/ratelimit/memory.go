package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of Store. Good enough
// for a single edge instance; a shared store would be needed for a
// fleet.
type MemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
}

// NewMemoryStore creates an in-memory rate limit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests: make(map[string][]time.Time),
	}
}

func (s *MemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	timestamps := s.requests[key]
	valid := make([]time.Time, 0, len(timestamps)+1)

	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	valid = append(valid, now)
	s.requests[key] = valid

	return int64(len(valid)), nil
}
