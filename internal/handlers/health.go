package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker defines the interface for checking a dependency's health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresChecker adapts pgxpool.Pool to Checker.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

// NewPostgresChecker creates a Postgres health checker.
func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (p *PostgresChecker) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// HealthHandler reports dependency health.
type HealthHandler struct {
	postgres Checker
	redis    Checker
}

// NewHealthHandler creates a health handler over the given checkers.
func NewHealthHandler(postgres, redis Checker) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Body struct {
		Status   string `example:"ok" json:"status"`
		Postgres string `example:"ok" json:"postgres"`
		Redis    string `example:"ok" json:"redis"`
	}
}

// Check pings both backing stores.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	if h.postgres != nil {
		if err := h.postgres.Ping(ctx); err != nil {
			return nil, huma.Error503ServiceUnavailable("postgres unavailable")
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			return nil, huma.Error503ServiceUnavailable("redis unavailable")
		}
	}

	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Postgres = "ok"
	resp.Body.Redis = "ok"

	return resp, nil
}

// RegisterHealthRoutes registers the health endpoint on the API.
func RegisterHealthRoutes(api huma.API, health *HealthHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Health check",
		Description: "Reports connectivity to Postgres and Redis.",
		Tags:        []string{"Health"},
	}, health.Check)
}
