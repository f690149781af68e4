package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

func TestNoticeForActiveCountdown(t *testing.T) {
	for days := -2; days <= 10; days++ {
		notice := NoticeFor(domain.SubscriptionState{Status: domain.SubscriptionActive, DaysUntilDue: days}, 3)
		if days < 0 || days > 3 {
			assert.Nil(t, notice, "days=%d", days)
			continue
		}
		require.NotNil(t, notice, "days=%d", days)
		assert.Equal(t, days, notice.DaysUntilDue)
		assert.False(t, notice.Blocking)
		assert.NotEmpty(t, notice.Message)
	}
}

func TestNoticeForDelinquentTenants(t *testing.T) {
	pastDue := NoticeFor(domain.SubscriptionState{Status: domain.SubscriptionPastDue, DaysUntilDue: -4}, 3)
	require.NotNil(t, pastDue)
	assert.Equal(t, NoticeCritical, pastDue.Level)
	assert.False(t, pastDue.Blocking)

	suspended := NoticeFor(domain.SubscriptionState{Status: domain.SubscriptionSuspended, DaysUntilDue: -10}, 3)
	require.NotNil(t, suspended)
	assert.True(t, suspended.Blocking)
}

func TestDueMessage(t *testing.T) {
	assert.Contains(t, dueMessage(0), "today")
	assert.Contains(t, dueMessage(1), "tomorrow")
	assert.Contains(t, dueMessage(3), "3 days")
}
