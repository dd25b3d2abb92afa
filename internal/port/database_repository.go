package port

import (
	"context"

	"github.com/rl1809/ecommerce-orders/internal/core/domain"
)

type CustomerRepository interface {
	// Create persists a new customer and returns it with generated id and timestamps.
	Create(ctx context.Context, name, email string) (*domain.Customer, error)

	// FindByID returns nil, nil when no customer matches.
	FindByID(ctx context.Context, id string) (*domain.Customer, error)

	// FindByEmail returns nil, nil when no customer matches.
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

type ProductRepository interface {
	// Create persists a new product and returns it with generated id and timestamps.
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)

	// FindByName returns nil, nil when no product matches.
	FindByName(ctx context.Context, name string) (*domain.Product, error)

	// FindAllByIDs batch-fetches products; unmatched ids are simply absent
	// from the result.
	FindAllByIDs(ctx context.Context, ids []string) ([]domain.Product, error)

	// UpdateQuantities overwrites stock levels and returns the updated rows.
	UpdateQuantities(ctx context.Context, quantities []domain.ProductQuantity) ([]domain.Product, error)
}

type OrderRepository interface {
	// Create inserts the order, its line items, and decrements each product's
	// stock in one transaction. The decrement is conditional on
	// quantity >= requested; a failing item aborts the transaction with
	// *domain.InsufficientStockError.
	Create(ctx context.Context, customer *domain.Customer, items []domain.LineItemInput) (*domain.Order, error)

	// FindByID returns nil, nil when no order matches.
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}
