package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/auth"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/events"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository/memory"
)

type fixture struct {
	repos      memory.Repositories
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	auth       *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := auth.NewTokenManager("service-test-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)

	f := &fixture{
		repos:      memory.NewRepositories(),
		hasher:     auth.NewPasswordHasher(4, 4),
		tokens:     tokens,
		dispatcher: events.NewInMemoryDispatcher(),
	}
	f.auth = NewAuthService(AuthDependencies{
		TenantRepo: f.repos.Tenants,
		UserRepo:   f.repos.Users,
		Hasher:     f.hasher,
		Tokens:     f.tokens,
		Logger:     zap.NewNop(),
	})
	return f
}

// register creates a tenant and returns its admin identity.
func (f *fixture) register(t *testing.T, email string) domain.Identity {
	t.Helper()
	session, err := f.auth.Register(context.Background(), RegisterInput{
		Name:        "Admin",
		Email:       email,
		Password:    "s3nha-forte",
		CompanyName: "Empresa " + email,
	})
	require.NoError(t, err)
	return session.User.Identity()
}

func (f *fixture) addUser(t *testing.T, admin domain.Identity, email string, role domain.Role) domain.Identity {
	t.Helper()
	users := NewUserService(f.repos.Users, f.hasher, f.dispatcher, nil)
	user, err := users.Create(context.Background(), admin, CreateUserInput{
		Name:     "Staff",
		Email:    email,
		Password: "s3nha-forte",
		Role:     role,
	})
	require.NoError(t, err)
	return user.Identity()
}
