package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/ecommerce-orders/internal/core/domain"
)

// CustomerMySQL, ProductMySQL and OrderMySQL share one *sql.DB; each
// implements its port interface over the corresponding table.

type CustomerMySQL struct {
	db *sql.DB
}

func NewCustomerMySQL(db *sql.DB) *CustomerMySQL {
	return &CustomerMySQL{db: db}
}

func (m *CustomerMySQL) Create(ctx context.Context, name, email string) (*domain.Customer, error) {
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		customer.ID, customer.Name, customer.Email, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}

	return &customer, nil
}

func (m *CustomerMySQL) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	return scanCustomer(m.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM customers WHERE id = ?`, id))
}

func (m *CustomerMySQL) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return scanCustomer(m.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM customers WHERE email = ?`, email))
}

func scanCustomer(row *sql.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}

	return &c, nil
}

type ProductMySQL struct {
	db *sql.DB
}

func NewProductMySQL(db *sql.DB) *ProductMySQL {
	return &ProductMySQL{db: db}
}

func (m *ProductMySQL) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.ID = uuid.NewString()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Price, product.Quantity,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return &product, nil
}

func (m *ProductMySQL) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	var p domain.Product
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, price, quantity, created_at, updated_at
		FROM products WHERE name = ?`, name,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	return &p, nil
}

func (m *ProductMySQL) FindAllByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, price, quantity, created_at, updated_at
		FROM products WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// UpdateQuantities overwrites stock levels in one transaction and returns
// the updated rows. An unknown id aborts the whole batch.
func (m *ProductMySQL) UpdateQuantities(ctx context.Context, quantities []domain.ProductQuantity) ([]domain.Product, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range quantities {
		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET quantity = ?, updated_at = NOW()
			WHERE id = ?`,
			q.Quantity, q.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("update product quantity: %w", err)
		}

		rows, _ := result.RowsAffected()
		if rows == 0 {
			return nil, &domain.InvalidProductsError{IDs: []string{q.ID}}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	ids := make([]string, len(quantities))
	for i, q := range quantities {
		ids[i] = q.ID
	}

	return m.FindAllByIDs(ctx, ids)
}

type OrderMySQL struct {
	db *sql.DB
}

func NewOrderMySQL(db *sql.DB) *OrderMySQL {
	return &OrderMySQL{db: db}
}

// Create inserts the order with its line items and decrements each product's
// stock in one transaction. The decrement only applies while
// quantity >= requested, so a concurrent order that would push stock negative
// aborts here with *domain.InsufficientStockError.
func (m *OrderMySQL) Create(ctx context.Context, customer *domain.Customer, items []domain.LineItemInput) (*domain.Order, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		order.ID, order.CustomerID, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range items {
		lineItem := domain.OrderLineItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_line_items (id, order_id, product_id, price, quantity, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			lineItem.ID, lineItem.OrderID, lineItem.ProductID, lineItem.Price,
			lineItem.Quantity, lineItem.CreatedAt, lineItem.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert line item: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET quantity = quantity - ?, updated_at = NOW()
			WHERE id = ? AND quantity >= ?`,
			item.Quantity, item.ProductID, item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}

		rows, _ := result.RowsAffected()
		if rows == 0 {
			return nil, &domain.InsufficientStockError{IDs: []string{item.ProductID}}
		}

		order.LineItems = append(order.LineItems, lineItem)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &order, nil
}

func (m *OrderMySQL) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var (
		order    domain.Order
		customer domain.Customer
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT o.id, o.customer_id, o.created_at, o.updated_at,
		       c.id, c.name, c.email, c.created_at, c.updated_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = ?`, id,
	).Scan(
		&order.ID, &order.CustomerID, &order.CreatedAt, &order.UpdatedAt,
		&customer.ID, &customer.Name, &customer.Email, &customer.CreatedAt, &customer.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	order.Customer = &customer

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, price, quantity, created_at, updated_at
		FROM order_line_items WHERE order_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var li domain.OrderLineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.Price, &li.Quantity, &li.CreatedAt, &li.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		order.LineItems = append(order.LineItems, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}

	return &order, nil
}
