package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

func statusOf(err error) int {
	return apperrors.ToDomainError(err).HTTPStatus
}

func TestRegisterCreatesTenantAndAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.auth.Register(ctx, RegisterInput{
		Name:        "Ana",
		Email:       " Ana@Bar.com ",
		Password:    "s3nha-forte",
		CompanyName: "Bar da Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAdmin, session.User.Role)
	assert.Equal(t, "ana@bar.com", session.User.Email)
	assert.Equal(t, session.Tenant.ID, session.User.TenantID)
	assert.Equal(t, domain.SubscriptionActive, session.Tenant.SubscriptionStatus)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), session.Tenant.BillingCycleAnchor, time.Minute)

	id, err := f.tokens.Verify(session.Tokens.Access.Value)
	require.NoError(t, err)
	assert.Equal(t, session.User.Identity(), id)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "X", Email: "ana@bar.com", Password: "whatever1", CompanyName: "Y"})
	assert.Equal(t, http.StatusConflict, statusOf(err))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "dono@bar.com")

	session, err := f.auth.Login(ctx, "DONO@bar.com", "s3nha-forte")
	require.NoError(t, err)
	assert.Equal(t, admin, session.User.Identity())

	_, err = f.auth.Login(ctx, "dono@bar.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, errUnknown := f.auth.Login(ctx, "ninguem@bar.com", "s3nha-forte")
	assert.Equal(t, http.StatusUnauthorized, statusOf(errUnknown))
	assert.Equal(t, err.Error(), errUnknown.Error(), "unknown email and wrong password look the same")
}

func TestConcurrentRegisterWithSameEmail(t *testing.T) {
	f := newFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.auth.Register(context.Background(), RegisterInput{
				Name:        "Ana",
				Email:       "ana@bar.com",
				Password:    "s3nha-forte",
				CompanyName: fmt.Sprintf("Bar %d", i),
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, http.StatusConflict, statusOf(err))
	}
	assert.Equal(t, 1, succeeded)
}

func TestLoginUnknownEmailAfterCancelledRequest(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dono@bar.com")

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.auth.Login(cancelled, "ninguem@bar.com", "s3nha-forte")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	assert.NotEmpty(t, f.auth.decoyHash())

	_, err = f.auth.Login(context.Background(), "ninguem@bar.com", "s3nha-forte")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestLoginRederivesIdentityFromStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "dono@bar.com")
	waiter := f.addUser(t, admin, "garcom@bar.com", domain.RoleWaiter)

	users := NewUserService(f.repos.Users, f.hasher, nil, nil)
	promoted := domain.RoleCashier
	_, err := users.Update(ctx, admin, waiter.UserID, UpdateUserInput{Role: &promoted})
	require.NoError(t, err)

	session, err := f.auth.Login(ctx, "garcom@bar.com", "s3nha-forte")
	require.NoError(t, err)
	id, err := f.tokens.Verify(session.Tokens.Access.Value)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCashier, id.Role)
	assert.Equal(t, admin.TenantID, id.TenantID)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "dono@bar.com")

	session, err := f.auth.Login(ctx, "dono@bar.com", "s3nha-forte")
	require.NoError(t, err)

	access, err := f.auth.Refresh(ctx, session.Tokens.Refresh.Value)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenKindAccess, access.Kind)

	_, err = f.auth.Refresh(ctx, session.Tokens.Access.Value)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}
