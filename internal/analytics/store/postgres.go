package store

import (
	"context"

	"github.com/charlesking86/link-shortener/internal/analytics"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists click events into the clicks table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed click event store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) SaveClick(ctx context.Context, event *analytics.ClickEvent) error {
	query := `
		INSERT INTO clicks (id, link_id, country, city, region, user_agent, device, referrer, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.LinkID,
		nullable(event.Country),
		nullable(event.City),
		nullable(event.Region),
		nullable(event.UserAgent),
		event.Device,
		nullable(event.Referrer),
		nullable(event.IP),
		event.ClickedAt,
	)

	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
