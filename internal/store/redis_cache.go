package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charlesking86/link-shortener/internal/link"
	"github.com/redis/go-redis/v9"
)

// RedisCacheRepository wraps a link.Repository with a read-through
// Redis cache. Records are cached per (host, slug) because the same
// slug can resolve differently under different domains.
type RedisCacheRepository struct {
	store  link.Repository
	client *redis.Client
	ttl    time.Duration
}

const cachePrefix = "link:"

// NewRedisCacheRepository creates a caching decorator over store.
func NewRedisCacheRepository(
	store link.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(slug, host string) string {
	return cachePrefix + host + ":" + slug
}

// Lookup checks the cache first, falling back to the wrapped store on
// a miss and populating the cache on the way back. Cache failures are
// treated as misses; the store stays authoritative.
func (r *RedisCacheRepository) Lookup(ctx context.Context, slug, host string) (*link.Link, error) {
	if payload, err := r.client.Get(ctx, cacheKey(slug, host)).Bytes(); err == nil {
		var rec link.Link
		if err := json.Unmarshal(payload, &rec); err == nil {
			return &rec, nil
		}
	}

	rec, err := r.store.Lookup(ctx, slug, host)
	if err != nil {
		return nil, err
	}

	r.cache(ctx, slug, host, rec)

	return rec, nil
}

// IncrementClicks forwards to the store and drops the cached record:
// the click-limit gate reads the counter, so a stale cached value
// could keep an exhausted link alive past its ceiling.
func (r *RedisCacheRepository) IncrementClicks(ctx context.Context, slug string) error {
	if err := r.store.IncrementClicks(ctx, slug); err != nil {
		return err
	}

	iter := r.client.Scan(ctx, 0, cachePrefix+"*:"+slug, 0).Iterator()
	for iter.Next(ctx) {
		_ = r.client.Del(ctx, iter.Val()).Err()
	}

	return nil
}

func (r *RedisCacheRepository) cache(ctx context.Context, slug, host string, rec *link.Link) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return
	}

	_ = r.client.Set(ctx, cacheKey(slug, host), payload, r.ttl).Err()
}

// Compile-time check.
var _ link.Repository = (*RedisCacheRepository)(nil)
