package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/billing"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/config"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/events"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

const billingPeriod = 30 * 24 * time.Hour

// BillingStatus is what the status endpoint reports to the UI.
type BillingStatus struct {
	Status             domain.SubscriptionStatus `json:"status"`
	DaysUntilDue       int                       `json:"daysUntilDue"`
	GraceDaysRemaining *int                      `json:"graceDaysRemaining,omitempty"`
	Notice             *billing.Notice           `json:"notice"`
}

// Resolution points a delinquent tenant to the payment flow.
type Resolution struct {
	Reference   string `json:"reference"`
	CheckoutURL string `json:"checkoutUrl"`
}

// WebhookResult summarizes how a provider notification was applied.
type WebhookResult struct {
	Ignored   bool                      `json:"ignored"`
	Duplicate bool                      `json:"duplicate,omitempty"`
	TenantID  string                    `json:"tenantId,omitempty"`
	OldStatus domain.SubscriptionStatus `json:"oldStatus,omitempty"`
	NewStatus domain.SubscriptionStatus `json:"newStatus,omitempty"`
}

// StatusReader is the read side of the subscription gate.
type StatusReader interface {
	State(ctx context.Context, id domain.Identity) (domain.SubscriptionState, error)
}

// BillingService exposes subscription state and applies payment provider events.
type BillingService struct {
	tenants    repository.TenantRepository
	status     StatusReader
	dispatcher events.Dispatcher
	cfg        config.BillingConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewBillingService builds the service.
func NewBillingService(tenants repository.TenantRepository, status StatusReader, dispatcher events.Dispatcher, cfg config.BillingConfig, logger *zap.Logger) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{
		tenants:    tenants,
		status:     status,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Status reports the caller's subscription state and the advisory notice, if any.
func (s *BillingService) Status(ctx context.Context, id domain.Identity) (*BillingStatus, error) {
	state, err := s.status.State(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &BillingStatus{
		Status:       state.Status,
		DaysUntilDue: state.DaysUntilDue,
		Notice:       billing.NoticeFor(state, s.cfg.NoticeWindowDays),
	}
	if state.Status == domain.SubscriptionPastDue {
		remaining := s.cfg.GraceDays + state.DaysUntilDue
		if remaining < 0 {
			remaining = 0
		}
		out.GraceDaysRemaining = &remaining
	}
	return out, nil
}

// Resolve returns the checkout reference for the caller's current billing cycle. The same cycle
// always yields the same reference, so retries do not open duplicate checkouts.
func (s *BillingService) Resolve(ctx context.Context, id domain.Identity) (*Resolution, error) {
	tenant, err := s.tenants.Get(ctx, id.TenantID)
	if err != nil {
		return nil, notFoundAs("tenant", err)
	}

	cycle := tenant.ID + "/" + tenant.BillingCycleAnchor.UTC().Format(time.RFC3339)
	reference := uuid.NewSHA1(uuid.NameSpaceURL, []byte(cycle)).String()

	checkout, err := url.Parse(s.cfg.CheckoutBaseURL)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	q := checkout.Query()
	q.Set("tenant", tenant.ID)
	q.Set("reference", reference)
	checkout.RawQuery = q.Encode()

	s.logger.Info("billing resolution requested",
		zap.String("tenant_id", tenant.ID),
		zap.String("user_id", id.UserID),
		zap.String("status", string(tenant.SubscriptionStatus)))
	return &Resolution{Reference: reference, CheckoutURL: checkout.String()}, nil
}

// HandleWebhook verifies and applies a payment provider notification.
func (s *BillingService) HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	if !billing.VerifySignature(s.cfg.WebhookSecret, body, signature) {
		s.logger.Warn("invalid or missing webhook signature")
		return nil, apperrors.NewUnauthenticated("invalid signature")
	}

	var payload billing.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewValidationError("invalid webhook payload", nil)
	}

	event := billing.Event(strings.ToLower(payload.Event))
	switch event {
	case billing.EventPaymentMissed, billing.EventGraceElapsed, billing.EventPaymentConfirmed:
	default:
		s.logger.Info("ignored webhook event", zap.String("event", payload.Event))
		return &WebhookResult{Ignored: true}, nil
	}

	tenantID := payload.TenantID()
	if tenantID == "" {
		return nil, apperrors.NewValidationError("webhook payload has no tenant", nil)
	}
	if payload.Object.ID == "" {
		return nil, apperrors.NewValidationError("webhook payload has no object id", nil)
	}
	tenant, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, notFoundAs("tenant", err)
	}

	next, err := billing.Transition(tenant.SubscriptionStatus, event)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidTransition) {
			return nil, apperrors.NewConflict("event does not apply to the current subscription status", map[string]any{
				"status": tenant.SubscriptionStatus,
				"event":  event,
			})
		}
		return nil, err
	}

	anchor := tenant.BillingCycleAnchor
	if event == billing.EventPaymentConfirmed {
		anchor = s.nextAnchor(anchor, payload.Object.NextDueAt)
	}
	change := repository.SubscriptionChange{
		TenantID: tenant.ID,
		EventKey: string(event) + ":" + payload.Object.ID,
		From:     tenant.SubscriptionStatus,
		To:       next,
		Anchor:   anchor,
	}
	switch err := s.tenants.ApplySubscriptionChange(ctx, change); {
	case errors.Is(err, repository.ErrDuplicate):
		s.logger.Info("duplicate webhook event",
			zap.String("tenant_id", tenant.ID),
			zap.String("event", string(event)),
			zap.String("payment_id", payload.Object.ID))
		return &WebhookResult{Ignored: true, Duplicate: true, TenantID: tenant.ID}, nil
	case errors.Is(err, repository.ErrStatusChanged):
		return nil, apperrors.NewConflict("subscription status changed concurrently", map[string]any{"event": event})
	case err != nil:
		return nil, notFoundAs("tenant", err)
	}

	s.logger.Info("subscription status changed",
		zap.String("tenant_id", tenant.ID),
		zap.String("from", string(tenant.SubscriptionStatus)),
		zap.String("to", string(next)),
		zap.String("payment_id", payload.Object.ID))

	if s.dispatcher != nil {
		changed := events.NewEvent(events.EventSubscriptionStatusChanged, tenant.ID, events.Actor{}, events.SubscriptionStatusChangedPayload{
			OldStatus: tenant.SubscriptionStatus,
			NewStatus: next,
			Reason:    string(event),
		})
		if err := s.dispatcher.Publish(ctx, changed); err != nil {
			s.logger.Warn("event handlers failed", zap.String("event_type", string(changed.Type)), zap.Error(err))
		}
	}

	return &WebhookResult{TenantID: tenant.ID, OldStatus: tenant.SubscriptionStatus, NewStatus: next}, nil
}

// nextAnchor moves the due date one period past the later of the old due date and now, unless
// the provider states it.
func (s *BillingService) nextAnchor(current time.Time, stated *time.Time) time.Time {
	if stated != nil && !stated.IsZero() {
		return *stated
	}
	base := s.now()
	if current.After(base) {
		base = current
	}
	return base.Add(billingPeriod)
}
