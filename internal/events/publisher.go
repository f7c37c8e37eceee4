package events

import (
	"context"

	"github.com/restopos/restopos/internal/domain"
)

// Publisher emits order lifecycle events. Publishing is telemetry for
// downstream consumers (kitchen displays, reporting); failures never fail
// the originating request.
type Publisher interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) OrderCreated(ctx context.Context, order *domain.Order) error {
	return nil
}
