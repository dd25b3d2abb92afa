package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         string
	CustomerID string
	Customer   *Customer
	LineItems  []OrderLineItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderLineItem carries the price captured at order time; later product
// price changes never alter it.
type OrderLineItem struct {
	ID        string
	OrderID   string
	ProductID string
	Price     decimal.Decimal
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItemInput is what the workflow hands to the order writer: product,
// captured price and requested quantity.
type LineItemInput struct {
	ProductID string
	Price     decimal.Decimal
	Quantity  int
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range o.LineItems {
		total = total.Add(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return total
}
