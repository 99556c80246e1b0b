package store

import (
	"context"

	"github.com/charlesking86/link-shortener/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that logs events.
// Useful for local runs without a clicks table.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op click store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveClick(_ context.Context, event *analytics.ClickEvent) error {
	n.logger.Info("click event received",
		zap.String("slug", event.Slug),
		zap.String("linkId", event.LinkID),
		zap.String("country", event.Country),
		zap.String("device", event.Device),
		zap.Time("clickedAt", event.ClickedAt),
	)

	return nil
}
