package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/billing"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/config"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/events"
)

const webhookSecret = "whsec_test"

type invalidatorSpy struct {
	tenants []string
}

func (s *invalidatorSpy) Invalidate(_ context.Context, tenantID string) error {
	s.tenants = append(s.tenants, tenantID)
	return nil
}

func newBillingService(f *fixture) *BillingService {
	gate := billing.NewGate(billing.NewStoreOracle(f.repos.Tenants), nil)
	return NewBillingService(f.repos.Tenants, gate, f.dispatcher, config.BillingConfig{
		WebhookSecret:    webhookSecret,
		GraceDays:        7,
		NoticeWindowDays: 3,
		CheckoutBaseURL:  "https://billing.example.com/checkout",
	}, nil)
}

func webhookBody(t *testing.T, event, tenantID, objectID string) []byte {
	t.Helper()
	var p billing.WebhookPayload
	p.Event = event
	p.Object.ID = objectID
	p.Object.Metadata = map[string]string{"tenant_id": tenantID}
	body, err := json.Marshal(p)
	require.NoError(t, err)
	return body
}

func TestBillingWebhookDrivesStateMachine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "a@bar.com")
	svc := newBillingService(f)

	spy := &invalidatorSpy{}
	NewNotificationService(f.dispatcher, spy, nil).RegisterHandlers()

	steps := []struct {
		event string
		want  domain.SubscriptionStatus
	}{
		{"payment.missed", domain.SubscriptionPastDue},
		{"grace.elapsed", domain.SubscriptionSuspended},
		{"payment.confirmed", domain.SubscriptionActive},
	}
	for _, step := range steps {
		body := webhookBody(t, step.event, admin.TenantID, "pay_1")
		result, err := svc.HandleWebhook(ctx, body, billing.Sign(webhookSecret, body))
		require.NoError(t, err, step.event)
		assert.Equal(t, step.want, result.NewStatus)

		status, err := svc.Status(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, step.want, status.Status)
	}
	assert.Equal(t, []string{admin.TenantID, admin.TenantID, admin.TenantID}, spy.tenants)

	tenant, err := f.repos.Tenants.Get(ctx, admin.TenantID)
	require.NoError(t, err)
	assert.True(t, tenant.BillingCycleAnchor.After(time.Now().Add(50*24*time.Hour)), "confirmed payment extends the cycle")
}

func TestBillingWebhookRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "a@bar.com")
	svc := newBillingService(f)

	body := webhookBody(t, "payment.missed", admin.TenantID, "pay_1")
	_, err := svc.HandleWebhook(ctx, body, "forged")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	body = webhookBody(t, "grace.elapsed", admin.TenantID, "pay_1")
	_, err = svc.HandleWebhook(ctx, body, billing.Sign(webhookSecret, body))
	assert.Equal(t, http.StatusConflict, statusOf(err))

	body = webhookBody(t, "payment.missed", "unknown-tenant", "pay_1")
	_, err = svc.HandleWebhook(ctx, body, billing.Sign(webhookSecret, body))
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	body = webhookBody(t, "payment.missed", admin.TenantID, "")
	_, err = svc.HandleWebhook(ctx, body, billing.Sign(webhookSecret, body))
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	body = []byte(`not json`)
	_, err = svc.HandleWebhook(ctx, body, billing.Sign(webhookSecret, body))
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	body = webhookBody(t, "payment.refunded", admin.TenantID, "pay_1")
	result, err := svc.HandleWebhook(ctx, body, billing.Sign(webhookSecret, body))
	require.NoError(t, err)
	assert.True(t, result.Ignored)
}

func TestBillingWebhookReplayIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "a@bar.com")
	svc := newBillingService(f)

	deliver := func(event, objectID string) (*WebhookResult, error) {
		body := webhookBody(t, event, admin.TenantID, objectID)
		return svc.HandleWebhook(ctx, body, billing.Sign(webhookSecret, body))
	}

	_, err := deliver("payment.missed", "inv_1")
	require.NoError(t, err)
	_, err = deliver("grace.elapsed", "inv_1")
	require.NoError(t, err)
	_, err = deliver("payment.confirmed", "pay_1")
	require.NoError(t, err)
	_, err = deliver("payment.missed", "inv_2")
	require.NoError(t, err)
	_, err = deliver("grace.elapsed", "inv_2")
	require.NoError(t, err)

	before, err := f.repos.Tenants.Get(ctx, admin.TenantID)
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionSuspended, before.SubscriptionStatus)

	result, err := deliver("payment.confirmed", "pay_1")
	require.NoError(t, err)
	assert.True(t, result.Ignored)
	assert.True(t, result.Duplicate)

	after, err := f.repos.Tenants.Get(ctx, admin.TenantID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionSuspended, after.SubscriptionStatus)
	assert.True(t, before.BillingCycleAnchor.Equal(after.BillingCycleAnchor))

	result, err = deliver("payment.confirmed", "pay_2")
	require.NoError(t, err)
	assert.False(t, result.Ignored)
	assert.Equal(t, domain.SubscriptionActive, result.NewStatus)
}

func TestBillingStatusNotice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "a@bar.com")
	svc := newBillingService(f)

	status, err := svc.Status(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, status.Status)
	assert.Nil(t, status.Notice, "fresh tenants are 30 days from due")

	require.NoError(t, f.repos.Tenants.UpdateSubscription(ctx, admin.TenantID, domain.SubscriptionActive, time.Now().Add(2*24*time.Hour)))
	status, err = svc.Status(ctx, admin)
	require.NoError(t, err)
	require.NotNil(t, status.Notice)
	assert.Equal(t, 2, status.Notice.DaysUntilDue)

	require.NoError(t, f.repos.Tenants.UpdateSubscription(ctx, admin.TenantID, domain.SubscriptionPastDue, time.Now().Add(-2*24*time.Hour)))
	status, err = svc.Status(ctx, admin)
	require.NoError(t, err)
	require.NotNil(t, status.GraceDaysRemaining)
	assert.Equal(t, 5, *status.GraceDaysRemaining)
}

func TestBillingResolveIsDeterministic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "a@bar.com")
	svc := newBillingService(f)

	first, err := svc.Resolve(ctx, admin)
	require.NoError(t, err)
	second, err := svc.Resolve(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	u, err := url.Parse(first.CheckoutURL)
	require.NoError(t, err)
	assert.Equal(t, "billing.example.com", u.Host)
	assert.Equal(t, admin.TenantID, u.Query().Get("tenant"))
	assert.Equal(t, first.Reference, u.Query().Get("reference"))
}

func TestNotificationServiceWithoutCache(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	NewNotificationService(d, nil, nil).RegisterHandlers()
	assert.NoError(t, d.Publish(context.Background(), events.NewEvent(events.EventSubscriptionStatusChanged, "t1", events.Actor{}, nil)))
}
