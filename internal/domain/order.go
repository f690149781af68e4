package domain

import (
	"errors"
	"math"
	"time"
)

// MaxItemQuantity caps the quantity of a single order line.
const MaxItemQuantity = 10000

// ErrTotalOverflow is returned when an order total does not fit in int64 cents.
var ErrTotalOverflow = errors.New("order total overflows")

// OrderStatus enumerates lifecycle states for an order (comanda).
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusClosed    OrderStatus = "CLOSED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a table's tab.
type Order struct {
	ID           string
	TenantID     string
	TableNumber  int
	Status       OrderStatus
	TotalInCents int64
	Items        []OrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem is a priced line of an order. UnitPrice is captured at ordering time.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   int64
}

// CanTransitionTo reports whether the order may move to next. Only open orders change state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderStatusOpen && (next == OrderStatusClosed || next == OrderStatusCancelled)
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusClosed, OrderStatusCancelled:
		return true
	}
	return false
}

// Total sums the priced lines. Lines are expected to carry non-negative prices and quantities.
func (o *Order) Total() (int64, error) {
	var total int64
	for _, item := range o.Items {
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			continue
		}
		qty := int64(item.Quantity)
		if item.UnitPrice > math.MaxInt64/qty {
			return 0, ErrTotalOverflow
		}
		line := item.UnitPrice * qty
		if total > math.MaxInt64-line {
			return 0, ErrTotalOverflow
		}
		total += line
	}
	return total, nil
}
