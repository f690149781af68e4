package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	digest, err := hasher.Hash(ctx, "123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", digest)
	assert.True(t, strings.HasPrefix(digest, "$2a$"))

	ok, err := hasher.Verify(ctx, "123456", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify(ctx, "wrong", digest)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Verify(ctx, "123456", "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasherDefaultsInvalidCost(t *testing.T) {
	hasher := NewPasswordHasher(99, 0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}

func TestPasswordHasherHonoursContext(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost, 1)
	require.True(t, hasher.slots.TryAcquire(1))
	defer hasher.slots.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, "123456")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = hasher.Verify(ctx, "123456", "digest")
	assert.ErrorIs(t, err, context.Canceled)
}
