// Package ratelimit guards the redirect hot path with a sliding
// window limiter keyed by client fingerprint.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether a request from the given key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// Store records requests and reports how many fall inside the current
// window, pruning expired entries as it goes.
type Store interface {
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// SlidingWindowLimiter allows up to limit requests per window per key.
type SlidingWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewSlidingWindowLimiter creates a sliding window rate limiter.
func NewSlidingWindowLimiter(store Store, limit int64, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Record(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.limit, nil
}

// Unlimited is a Limiter that always allows; used when rate limiting
// is disabled by configuration.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) {
	return true, nil
}
