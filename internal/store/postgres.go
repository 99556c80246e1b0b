package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/charlesking86/link-shortener/internal/link"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of link.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Lookup resolves a slug for the given hostname. A record scoped to
// the exact hostname beats a domain-less record; the ORDER BY makes
// the choice deterministic instead of store-dependent.
func (p *PostgresStore) Lookup(ctx context.Context, slug, host string) (*link.Link, error) {
	query := `
		SELECT id, slug, domain, original, android_url, ios_url, password,
		       expires_at, geo_targets, social_tags, tracking_ids, ab_test,
		       http_status, cloaking, click_limit, clicks, created_at
		FROM links
		WHERE slug = $1 AND (domain = $2 OR domain IS NULL)
		ORDER BY (domain = $2) DESC NULLS LAST
		LIMIT 1
	`

	var rec link.Link

	err := p.pool.QueryRow(ctx, query, slug, host).Scan(
		&rec.ID,
		&rec.Slug,
		&rec.Domain,
		&rec.Original,
		&rec.AndroidURL,
		&rec.IOSURL,
		&rec.Password,
		&rec.ExpiresAt,
		&rec.GeoTargets,
		&rec.Social,
		&rec.Tracking,
		&rec.ABTest,
		&rec.HTTPStatus,
		&rec.Cloaking,
		&rec.ClickLimit,
		&rec.Clicks,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, fmt.Errorf("lookup %q: %w", slug, err)
	}

	return &rec, nil
}

// IncrementClicks bumps the legacy counter kept on the link row.
func (p *PostgresStore) IncrementClicks(ctx context.Context, slug string) error {
	query := `
		UPDATE links
		SET clicks = clicks + 1
		WHERE slug = $1
	`

	if _, err := p.pool.Exec(ctx, query, slug); err != nil {
		return fmt.Errorf("increment clicks for %q: %w", slug, err)
	}

	return nil
}

// Compile-time check.
var _ link.Repository = (*PostgresStore)(nil)
