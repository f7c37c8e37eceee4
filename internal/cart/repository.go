package cart

import (
	"context"
	"errors"

	"github.com/restopos/restopos/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// Repository is the source of truth for carts. Consumers define the
// interface; Mongo provides the implementation.
type Repository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}
