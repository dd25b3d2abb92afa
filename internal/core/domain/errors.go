package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCustomerNotFound = errors.New("customer does not exist")
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmailTaken       = errors.New("email address already used")
	ErrProductNameTaken = errors.New("product name already used")
)

// ValidationError reports malformed input before any lookup happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// InvalidProductsError names every requested product id with no matching
// product, joined into one message.
type InvalidProductsError struct {
	IDs []string
}

func (e *InvalidProductsError) Error() string {
	return fmt.Sprintf("invalid product(s): %s", strings.Join(e.IDs, ", "))
}

// InsufficientStockError names every requested item whose quantity exceeds
// the matching product's stock.
type InsufficientStockError struct {
	IDs []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product(s): %s", strings.Join(e.IDs, ", "))
}
