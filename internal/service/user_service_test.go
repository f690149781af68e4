package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

func TestUserService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@bar.com")
	b := f.register(t, "b@bar.com")
	users := NewUserService(f.repos.Users, f.hasher, f.dispatcher, nil)

	cashier, err := users.Create(ctx, a, CreateUserInput{Name: "Caixa", Email: "caixa@bar.com", Password: "s3nha-forte", Role: domain.RoleCashier})
	require.NoError(t, err)
	assert.NotEqual(t, "s3nha-forte", cashier.PasswordHash)

	_, err = users.Create(ctx, a, CreateUserInput{Name: "Dup", Email: "CAIXA@bar.com", Password: "s3nha-forte", Role: domain.RoleWaiter})
	assert.Equal(t, http.StatusConflict, statusOf(err))

	_, err = users.Create(ctx, a, CreateUserInput{Name: "Owner", Email: "owner@bar.com", Password: "s3nha-forte", Role: "OWNER"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = users.Get(ctx, b, cashier.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	name := "Hacked"
	_, err = users.Update(ctx, b, cashier.ID, UpdateUserInput{Name: &name})
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	assert.Equal(t, http.StatusNotFound, statusOf(users.Delete(ctx, b, cashier.ID)))

	assert.Equal(t, http.StatusBadRequest, statusOf(users.Delete(ctx, a, a.UserID)))

	list, err := users.List(ctx, a)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, users.Delete(ctx, a, cashier.ID))
	_, err = users.Get(ctx, a, cashier.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestUserUpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@bar.com")
	waiter := f.addUser(t, a, "garcom@bar.com", domain.RoleWaiter)
	users := NewUserService(f.repos.Users, f.hasher, nil, nil)

	password := "nova-senha-123"
	_, err := users.Update(ctx, a, waiter.UserID, UpdateUserInput{Password: &password})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "garcom@bar.com", "s3nha-forte")
	assert.Error(t, err)
	_, err = f.auth.Login(ctx, "garcom@bar.com", password)
	assert.NoError(t, err)
}
