package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

// StatusOracle reports a tenant's subscription state.
type StatusOracle interface {
	GetSubscriptionStatus(ctx context.Context, tenantID string) (domain.SubscriptionState, error)
}

// TenantReader loads the tenant record holding the billing fields.
type TenantReader interface {
	Get(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

// StoreOracle derives the subscription state from the tenants table.
type StoreOracle struct {
	tenants TenantReader
	now     func() time.Time
}

// NewStoreOracle builds the oracle.
func NewStoreOracle(tenants TenantReader) *StoreOracle {
	return &StoreOracle{tenants: tenants, now: time.Now}
}

// GetSubscriptionStatus implements StatusOracle.
func (o *StoreOracle) GetSubscriptionStatus(ctx context.Context, tenantID string) (domain.SubscriptionState, error) {
	tenant, err := o.tenants.Get(ctx, tenantID)
	if err != nil {
		return domain.SubscriptionState{}, err
	}
	return domain.SubscriptionState{
		Status:       tenant.SubscriptionStatus,
		DaysUntilDue: DaysUntil(tenant.BillingCycleAnchor, o.now()),
	}, nil
}

// DaysUntil counts whole days from now until due, rounding up; overdue dates are negative.
func DaysUntil(due, now time.Time) int {
	if due.IsZero() {
		return 0
	}
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

const cacheKeyPrefix = "subscription:status:"

// CachedOracle serves subscription states from Redis for a short TTL. A payment confirmed a few
// seconds ago may not be visible until the entry expires or is invalidated.
type CachedOracle struct {
	next   StatusOracle
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedOracle wraps next with a Redis cache. A nil client or zero ttl disables caching.
func NewCachedOracle(next StatusOracle, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedOracle{next: next, client: client, ttl: ttl, logger: logger}
}

// GetSubscriptionStatus implements StatusOracle.
func (o *CachedOracle) GetSubscriptionStatus(ctx context.Context, tenantID string) (domain.SubscriptionState, error) {
	if !o.enabled() {
		return o.next.GetSubscriptionStatus(ctx, tenantID)
	}

	key := cacheKeyPrefix + tenantID
	val, err := o.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var state domain.SubscriptionState
		if jsonErr := json.Unmarshal([]byte(val), &state); jsonErr == nil && state.Status.Valid() {
			return state, nil
		}
		o.logger.Warn("discarding unreadable subscription cache entry", zap.String("tenant_id", tenantID))
	case errors.Is(err, redis.Nil):
	default:
		// cache outage degrades to direct reads
		o.logger.Warn("subscription cache read failed", zap.String("tenant_id", tenantID), zap.Error(err))
	}

	state, err := o.next.GetSubscriptionStatus(ctx, tenantID)
	if err != nil {
		return domain.SubscriptionState{}, err
	}

	payload, err := json.Marshal(state)
	if err == nil {
		if err := o.client.Set(ctx, key, payload, o.ttl).Err(); err != nil {
			o.logger.Warn("subscription cache write failed", zap.String("tenant_id", tenantID), zap.Error(err))
		}
	}
	return state, nil
}

// Invalidate drops the cached state of a tenant.
func (o *CachedOracle) Invalidate(ctx context.Context, tenantID string) error {
	if !o.enabled() {
		return nil
	}
	if err := o.client.Del(ctx, cacheKeyPrefix+tenantID).Err(); err != nil {
		return fmt.Errorf("invalidate subscription cache: %w", err)
	}
	return nil
}

func (o *CachedOracle) enabled() bool {
	return o.client != nil && o.ttl > 0
}
