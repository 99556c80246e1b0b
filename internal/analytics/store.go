package analytics

import "context"

// Store defines the interface for persisting click events.
type Store interface {
	SaveClick(ctx context.Context, event *ClickEvent) error
}
