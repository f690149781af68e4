package domain

import "time"

// SubscriptionStatus is the billing state of a tenant.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionPastDue   SubscriptionStatus = "PAST_DUE"
	SubscriptionSuspended SubscriptionStatus = "SUSPENDED"
)

// Valid reports whether s is a known status.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionPastDue, SubscriptionSuspended:
		return true
	}
	return false
}

// Tenant is an isolated customer organization and the root of data isolation.
type Tenant struct {
	ID                 string
	Name               string
	SubscriptionStatus SubscriptionStatus
	BillingCycleAnchor time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SubscriptionState is what the billing oracle reports for a tenant.
type SubscriptionState struct {
	Status       SubscriptionStatus `json:"status"`
	DaysUntilDue int                `json:"daysUntilDue"`
}
