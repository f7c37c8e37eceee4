package cart

import (
	"context"
	"errors"

	"github.com/restopos/restopos/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Set(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
