package port

import (
	"context"

	"github.com/rl1809/ecommerce-orders/internal/core/domain"
)

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// GetOrder returns the cached order or nil on a miss.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// SetOrder caches an order for subsequent reads.
	SetOrder(ctx context.Context, order *domain.Order) error

	// DeleteOrder evicts a cached order.
	DeleteOrder(ctx context.Context, id string) error
}
