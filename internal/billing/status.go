package billing

import (
	"errors"
	"fmt"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

// Event is a billing fact reported by the payment provider.
type Event string

const (
	EventPaymentMissed    Event = "payment.missed"
	EventGraceElapsed     Event = "grace.elapsed"
	EventPaymentConfirmed Event = "payment.confirmed"
)

// ErrInvalidTransition is returned for events that do not apply to the current state.
var ErrInvalidTransition = errors.New("billing: invalid subscription transition")

// Transition applies an event to a subscription status.
//
//	ACTIVE    --payment.missed-->    PAST_DUE
//	PAST_DUE  --grace.elapsed-->     SUSPENDED
//	PAST_DUE  --payment.confirmed--> ACTIVE
//	SUSPENDED --payment.confirmed--> ACTIVE
func Transition(from domain.SubscriptionStatus, event Event) (domain.SubscriptionStatus, error) {
	switch {
	case from == domain.SubscriptionActive && event == EventPaymentMissed:
		return domain.SubscriptionPastDue, nil
	case from == domain.SubscriptionPastDue && event == EventGraceElapsed:
		return domain.SubscriptionSuspended, nil
	case from == domain.SubscriptionPastDue && event == EventPaymentConfirmed,
		from == domain.SubscriptionSuspended && event == EventPaymentConfirmed:
		return domain.SubscriptionActive, nil
	}
	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
}
