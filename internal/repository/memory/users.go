package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

type userRow = domain.User

func userColumn(u userRow) func(string) (any, bool) {
	return func(name string) (any, bool) {
		switch name {
		case "id":
			return u.ID, true
		case "email":
			return u.Email, true
		case "role":
			return u.Role, true
		}
		return nil, false
	}
}

// UserRepository is the map-backed user store.
type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(_ context.Context, scope tenancy.Scope, user *domain.User) error {
	if err := scope.Require(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, "") {
		return repository.ErrDuplicate
	}
	scope.Stamp(&user.TenantID)
	now := s.now()
	user.ID = newID()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Update(_ context.Context, scope tenancy.Scope, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if err := lookup(scope, ok, current.TenantID); err != nil {
		return err
	}
	if s.emailTaken(user.Email, user.ID) {
		return repository.ErrDuplicate
	}
	user.TenantID = current.TenantID
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = s.now()
	s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Delete(_ context.Context, scope tenancy.Scope, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[id]
	if err := lookup(scope, ok, current.TenantID); err != nil {
		return err
	}
	delete(s.users, id)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, scope tenancy.Scope, id string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if err := lookup(scope, ok, user.TenantID); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(_ context.Context, scope tenancy.Scope) ([]domain.User, error) {
	if err := scope.Require(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []domain.User
	for _, user := range s.users {
		if scope.Matches(user.TenantID, nil, userColumn(user)) {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *UserRepository) FindForLogin(_ context.Context, email string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, tenancy.ErrNotFound
}

func (s *Store) emailTaken(email, exceptID string) bool {
	for id, user := range s.users {
		if id != exceptID && strings.EqualFold(user.Email, email) {
			return true
		}
	}
	return false
}
