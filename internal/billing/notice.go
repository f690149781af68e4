package billing

import (
	"fmt"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

// NoticeLevel grades how urgently the UI should surface a notice.
type NoticeLevel string

const (
	NoticeInfo     NoticeLevel = "info"
	NoticeWarning  NoticeLevel = "warning"
	NoticeCritical NoticeLevel = "critical"
)

// Notice is the advisory countdown shown to a tenant approaching or past its due date.
type Notice struct {
	Level        NoticeLevel `json:"level"`
	DaysUntilDue int         `json:"daysUntilDue"`
	Message      string      `json:"message"`
	Blocking     bool        `json:"blocking"`
}

// NoticeFor builds the notice for a state; nil means nothing to show. window is how many days
// before the due date an ACTIVE tenant starts seeing the countdown.
func NoticeFor(state domain.SubscriptionState, window int) *Notice {
	days := state.DaysUntilDue
	switch state.Status {
	case domain.SubscriptionSuspended:
		return &Notice{
			Level:        NoticeCritical,
			DaysUntilDue: days,
			Message:      "Your subscription is suspended. Renew it to resume changes.",
			Blocking:     true,
		}
	case domain.SubscriptionPastDue:
		return &Notice{
			Level:        NoticeCritical,
			DaysUntilDue: days,
			Message:      "Your payment is overdue. Renew now to avoid suspension.",
		}
	case domain.SubscriptionActive:
		if days < 0 || days > window {
			return nil
		}
		level := NoticeWarning
		if days <= 1 {
			level = NoticeCritical
		}
		return &Notice{Level: level, DaysUntilDue: days, Message: dueMessage(days)}
	}
	return nil
}

func dueMessage(days int) string {
	switch days {
	case 0:
		return "Your subscription is due today. Renew now to keep access."
	case 1:
		return "Your subscription is due tomorrow. Renew to avoid interruption."
	}
	return fmt.Sprintf("Your subscription is due in %d days. Renew to keep access.", days)
}
