package billing

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

type tenantReaderStub map[string]*domain.Tenant

func (s tenantReaderStub) Get(_ context.Context, tenantID string) (*domain.Tenant, error) {
	t, ok := s[tenantID]
	if !ok {
		return nil, assert.AnError
	}
	return t, nil
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysUntil(now.Add(72*time.Hour), now))
	assert.Equal(t, 3, DaysUntil(now.Add(50*time.Hour), now))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, -2, DaysUntil(now.Add(-48*time.Hour), now))
	assert.Equal(t, 0, DaysUntil(time.Time{}, now))
}

func TestStoreOracle(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	oracle := NewStoreOracle(tenantReaderStub{
		"t1": {ID: "t1", SubscriptionStatus: domain.SubscriptionPastDue, BillingCycleAnchor: now.Add(-24 * time.Hour)},
	})
	oracle.now = func() time.Time { return now }

	state, err := oracle.GetSubscriptionStatus(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionState{Status: domain.SubscriptionPastDue, DaysUntilDue: -1}, state)

	_, err = oracle.GetSubscriptionStatus(context.Background(), "missing")
	assert.Error(t, err)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedOracleServesFromCache(t *testing.T) {
	mr, client := newRedis(t)
	next := new(oracleMock)
	next.On("GetSubscriptionStatus", mock.Anything, "t1").
		Return(domain.SubscriptionState{Status: domain.SubscriptionActive, DaysUntilDue: 12}, nil).Once()

	cached := NewCachedOracle(next, client, 30*time.Second, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		state, err := cached.GetSubscriptionStatus(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionActive, state.Status)
		assert.Equal(t, 12, state.DaysUntilDue)
	}
	next.AssertNumberOfCalls(t, "GetSubscriptionStatus", 1)
	assert.True(t, mr.Exists(cacheKeyPrefix+"t1"))
	assert.Equal(t, 30*time.Second, mr.TTL(cacheKeyPrefix+"t1"))
}

func TestCachedOracleExpiryAndInvalidate(t *testing.T) {
	mr, client := newRedis(t)
	next := new(oracleMock)
	next.On("GetSubscriptionStatus", mock.Anything, "t1").
		Return(domain.SubscriptionState{Status: domain.SubscriptionSuspended}, nil).Once()
	next.On("GetSubscriptionStatus", mock.Anything, "t1").
		Return(domain.SubscriptionState{Status: domain.SubscriptionActive}, nil)

	cached := NewCachedOracle(next, client, 30*time.Second, nil)
	ctx := context.Background()

	state, err := cached.GetSubscriptionStatus(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionSuspended, state.Status)

	require.NoError(t, cached.Invalidate(ctx, "t1"))
	state, err = cached.GetSubscriptionStatus(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, state.Status)

	mr.FastForward(31 * time.Second)
	assert.False(t, mr.Exists(cacheKeyPrefix+"t1"))
	next.AssertNumberOfCalls(t, "GetSubscriptionStatus", 2)
}

func TestCachedOracleFallsBackWhenRedisIsDown(t *testing.T) {
	mr, client := newRedis(t)
	next := new(oracleMock)
	next.On("GetSubscriptionStatus", mock.Anything, "t1").
		Return(domain.SubscriptionState{Status: domain.SubscriptionPastDue}, nil)

	cached := NewCachedOracle(next, client, time.Minute, nil)
	mr.Close()

	state, err := cached.GetSubscriptionStatus(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionPastDue, state.Status)
}

func TestCachedOracleDisabled(t *testing.T) {
	next := new(oracleMock)
	next.On("GetSubscriptionStatus", mock.Anything, "t1").
		Return(domain.SubscriptionState{Status: domain.SubscriptionActive}, nil)

	cached := NewCachedOracle(next, nil, time.Minute, nil)
	_, err := cached.GetSubscriptionStatus(context.Background(), "t1")
	require.NoError(t, err)
	_, err = cached.GetSubscriptionStatus(context.Background(), "t1")
	require.NoError(t, err)
	assert.NoError(t, cached.Invalidate(context.Background(), "t1"))
	next.AssertNumberOfCalls(t, "GetSubscriptionStatus", 2)
}
