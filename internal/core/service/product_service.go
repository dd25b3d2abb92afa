package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rl1809/ecommerce-orders/internal/core/domain"
	"github.com/rl1809/ecommerce-orders/internal/port"
)

type ProductService struct {
	products port.ProductRepository
}

func NewProductService(products port.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) Create(ctx context.Context, name string, price decimal.Decimal, quantity int) (*domain.Product, error) {
	if name == "" {
		return nil, &domain.ValidationError{Msg: "product name is required"}
	}
	if price.IsNegative() || price.IsZero() {
		return nil, &domain.ValidationError{Msg: "product price must be positive"}
	}
	if quantity < 0 {
		return nil, &domain.ValidationError{Msg: "product quantity must not be negative"}
	}

	existing, err := s.products.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrProductNameTaken
	}

	product, err := s.products.Create(ctx, domain.Product{
		Name:     name,
		Price:    price,
		Quantity: quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("product creation failed: %w", err)
	}

	return product, nil
}

// UpdateQuantities overwrites stock levels, typically to restock. Target
// quantities must not be negative.
func (s *ProductService) UpdateQuantities(ctx context.Context, quantities []domain.ProductQuantity) ([]domain.Product, error) {
	if len(quantities) == 0 {
		return nil, &domain.ValidationError{Msg: "at least one (id, quantity) pair is required"}
	}
	for _, q := range quantities {
		if q.ID == "" || q.Quantity < 0 {
			return nil, &domain.ValidationError{Msg: "every entry needs an id and a non-negative quantity"}
		}
	}

	updated, err := s.products.UpdateQuantities(ctx, quantities)
	if err != nil {
		return nil, fmt.Errorf("quantity update failed: %w", err)
	}

	return updated, nil
}
