package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rl1809/ecommerce-orders/internal/core/domain"
	"github.com/rl1809/ecommerce-orders/internal/port"
)

var ErrDuplicateRequest = errors.New("duplicate request")

// OrderItemRequest is one (product id, quantity) entry of an incoming order.
type OrderItemRequest struct {
	ProductID string
	Quantity  int
}

type OrderService struct {
	orders    port.OrderRepository
	products  port.ProductRepository
	customers port.CustomerRepository
	cache     port.CacheRepository
}

func NewOrderService(
	orders port.OrderRepository,
	products port.ProductRepository,
	customers port.CustomerRepository,
	cache port.CacheRepository,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		customers: customers,
		cache:     cache,
	}
}

// CreateOrder validates and commits one order: the customer must exist, every
// requested product must exist, and every requested quantity must fit the
// matching product's stock. Stock decrement and order insert happen in a
// single transaction inside the order repository. requestID is optional; when
// set, a repeated submission with the same id fails with ErrDuplicateRequest.
func (s *OrderService) CreateOrder(ctx context.Context, customerID, requestID string, items []OrderItemRequest) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Msg: "order must contain at least one product"}
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 {
			return nil, &domain.ValidationError{Msg: "every product entry needs an id and a quantity of at least 1"}
		}
	}

	if requestID != "" {
		idempotencyKey := fmt.Sprintf("order:%s:%s", customerID, requestID)
		ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	found, err := s.products.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}

	byID := make(map[string]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var invalid []string
	for _, item := range items {
		if _, ok := byID[item.ProductID]; !ok {
			invalid = append(invalid, item.ProductID)
		}
	}
	if len(invalid) > 0 {
		return nil, &domain.InvalidProductsError{IDs: invalid}
	}

	// Each item is checked against its own matching product only; the final
	// word on stock is the conditional decrement inside the transaction.
	var outOfStock []string
	for _, item := range items {
		if byID[item.ProductID].Quantity < item.Quantity {
			outOfStock = append(outOfStock, item.ProductID)
		}
	}
	if len(outOfStock) > 0 {
		return nil, &domain.InsufficientStockError{IDs: outOfStock}
	}

	lineItems := make([]domain.LineItemInput, len(items))
	for i, item := range items {
		product := byID[item.ProductID]
		lineItems[i] = domain.LineItemInput{
			ProductID: product.ID,
			Price:     product.Price,
			Quantity:  item.Quantity,
		}
	}

	order, err := s.orders.Create(ctx, customer, lineItems)
	if err != nil {
		return nil, fmt.Errorf("order creation failed: %w", err)
	}
	order.Customer = customer

	if err := s.cache.SetOrder(ctx, order); err != nil {
		slog.WarnContext(ctx, "order cache write failed", "order_id", order.ID, "error", err)
	}

	return order, nil
}

// GetOrder reads through the cache before hitting the database.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	cached, err := s.cache.GetOrder(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "order cache read failed", "order_id", id, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order lookup failed: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	if err := s.cache.SetOrder(ctx, order); err != nil {
		slog.WarnContext(ctx, "order cache write failed", "order_id", order.ID, "error", err)
	}

	return order, nil
}
