package domain

import "time"

// Product is an item on a tenant's menu.
type Product struct {
	ID           string
	TenantID     string
	Name         string
	PriceInCents int64
	Category     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
