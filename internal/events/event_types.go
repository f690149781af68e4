package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubscriptionStatusChanged EventType = "subscription_status_changed"
	EventOrderCreated              EventType = "order_created"
	EventOrderStatusChanged        EventType = "order_status_changed"
	EventUserCreated               EventType = "user_created"
	EventUserDeleted               EventType = "user_deleted"
)

// Actor identifies who caused an event. Billing events raised by the payment provider carry no user.
type Actor struct {
	UserID string      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// ActorFrom builds the actor of an authenticated request.
func ActorFrom(id domain.Identity) Actor {
	return Actor{UserID: id.UserID, Role: id.Role}
}

// Event represents a domain event emitted by services. Every event belongs to one tenant.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TenantID  string    `json:"tenant_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps id and time.
func NewEvent(eventType EventType, tenantID string, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TenantID:  tenantID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SubscriptionStatusChangedPayload payload.
type SubscriptionStatusChangedPayload struct {
	OldStatus domain.SubscriptionStatus `json:"old_status"`
	NewStatus domain.SubscriptionStatus `json:"new_status"`
	Reason    string                    `json:"reason"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID      string `json:"order_id"`
	TableNumber  int    `json:"table_number"`
	TotalInCents int64  `json:"total_in_cents"`
	ItemCount    int    `json:"item_count"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OrderID   string             `json:"order_id"`
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// UserChangedPayload payload for seat changes.
type UserChangedPayload struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}
