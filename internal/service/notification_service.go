package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/events"
)

// StatusCacheInvalidator drops a tenant's cached subscription state.
type StatusCacheInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

// NotificationService reacts to domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	cache      StatusCacheInvalidator
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, cache StatusCacheInvalidator, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubscriptionStatusChanged, n.handleSubscriptionStatusChanged)
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderEvent)
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.handleOrderEvent)
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleSeatChange)
	n.dispatcher.Subscribe(events.EventUserDeleted, n.handleSeatChange)
}

func (n *NotificationService) handleSubscriptionStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("SubscriptionStatusChanged", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	if n.cache == nil {
		return nil
	}
	// the gate must see the new status before the cache entry would expire on its own
	return n.cache.Invalidate(ctx, event.TenantID)
}

func (n *NotificationService) handleOrderEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("tenant_id", event.TenantID),
		zap.String("user_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleSeatChange(_ context.Context, event events.Event) error {
	n.logger.Debug("seat count changed",
		zap.String("tenant_id", event.TenantID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	return nil
}
