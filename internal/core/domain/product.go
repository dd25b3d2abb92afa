package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductQuantity is an (id, quantity) pair for overwrite-style stock updates.
type ProductQuantity struct {
	ID       string
	Quantity int
}
