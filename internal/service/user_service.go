package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/auth"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/events"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

// CreateUserInput adds a staff member to the caller's tenant.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// UserService manages the staff of a tenant.
type UserService struct {
	users      repository.UserRepository
	hasher     *auth.PasswordHasher
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, hasher *auth.PasswordHasher, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, hasher: hasher, dispatcher: dispatcher, logger: logger}
}

// List returns the tenant's users.
func (s *UserService) List(ctx context.Context, id domain.Identity) ([]domain.User, error) {
	return s.users.List(ctx, tenancy.FromIdentity(id))
}

// Get returns one user of the caller's tenant.
func (s *UserService) Get(ctx context.Context, id domain.Identity, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, tenancy.FromIdentity(id), userID)
	if err != nil {
		return nil, notFoundAs("user", err)
	}
	return user, nil
}

// Create adds a user to the caller's tenant.
func (s *UserService) Create(ctx context.Context, id domain.Identity, in CreateUserInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": in.Role})
	}
	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, tenancy.FromIdentity(id), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("user already exists", map[string]any{"email": user.Email})
		}
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventUserCreated, user.TenantID, events.ActorFrom(id), events.UserChangedPayload{
		UserID: user.ID,
		Role:   user.Role,
	}))
	return user, nil
}

// Update applies a partial update.
func (s *UserService) Update(ctx context.Context, id domain.Identity, userID string, in UpdateUserInput) (*domain.User, error) {
	scope := tenancy.FromIdentity(id)
	user, err := s.users.GetByID(ctx, scope, userID)
	if err != nil {
		return nil, notFoundAs("user", err)
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *in.Role})
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(ctx, *in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, scope, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("user already exists", map[string]any{"email": user.Email})
		}
		return nil, notFoundAs("user", err)
	}
	return user, nil
}

// Delete removes a user other than the caller.
func (s *UserService) Delete(ctx context.Context, id domain.Identity, userID string) error {
	if userID == id.UserID {
		return apperrors.NewValidationError("you cannot delete your own account", nil)
	}
	scope := tenancy.FromIdentity(id)
	user, err := s.users.GetByID(ctx, scope, userID)
	if err != nil {
		return notFoundAs("user", err)
	}
	if err := s.users.Delete(ctx, scope, userID); err != nil {
		return notFoundAs("user", err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserDeleted, user.TenantID, events.ActorFrom(id), events.UserChangedPayload{
		UserID: user.ID,
		Role:   user.Role,
	}))
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
