package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/auth"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

const initialBillingPeriod = 30 * 24 * time.Hour

// RegisterInput is the self-service signup of a new tenant.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	CompanyName string
}

// Session is the outcome of a successful login or registration.
type Session struct {
	User   *domain.User
	Tenant *domain.Tenant
	Tokens domain.TokenPair
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenManager
	logger  *zap.Logger
	now     func() time.Time

	decoyOnce sync.Once
	decoy     string
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	TenantRepo repository.TenantRepository
	UserRepo   repository.UserRepository
	Hasher     *auth.PasswordHasher
	Tokens     *auth.TokenManager
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		tenants: deps.TenantRepo,
		users:   deps.UserRepo,
		hasher:  deps.Hasher,
		tokens:  deps.Tokens,
		logger:  logger,
		now:     time.Now,
	}
}

// Register creates a tenant, its first ADMIN and a session for that admin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.FindForLogin(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	tenant := &domain.Tenant{
		Name:               strings.TrimSpace(in.CompanyName),
		SubscriptionStatus: domain.SubscriptionActive,
		BillingCycleAnchor: s.now().Add(initialBillingPeriod),
	}
	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.tenants.Create(ctx, tenant, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}

	pair, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, err
	}
	s.logger.Info("tenant registered", zap.String("tenant_id", tenant.ID), zap.String("user_id", user.ID))
	return &Session{User: user, Tenant: tenant, Tokens: pair}, nil
}

// Login verifies credentials and issues a session. The identity is re-derived from storage, so
// role or tenant changes apply from the next login.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindForLogin(ctx, normalizeEmail(email))
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		// burn the same bcrypt work as a real check so unknown emails are not faster
		_, _ = s.hasher.Verify(ctx, password, s.decoyHash())
		return nil, invalidCredentials()
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Info("login rejected", zap.String("tenant_id", user.TenantID), zap.String("user_id", user.ID))
		return nil, invalidCredentials()
	}

	pair, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (domain.Token, error) {
	token, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return domain.Token{}, apperrors.NewUnauthenticated("authentication required")
	}
	return token, nil
}

// decoyHash is computed once, detached from any request so a cancelled caller cannot leave it empty.
func (s *AuthService) decoyHash() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash(context.Background(), "decoy-password-for-timing")
		if err != nil {
			s.logger.Warn("decoy hash unavailable", zap.Error(err))
			return
		}
		s.decoy = hash
	})
	return s.decoy
}

func invalidCredentials() error {
	return apperrors.NewUnauthenticated("invalid credentials")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
