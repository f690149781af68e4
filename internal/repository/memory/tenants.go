package memory

import (
	"context"
	"time"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

type tenantRow = domain.Tenant

// TenantRepository is the map-backed tenant store.
type TenantRepository struct {
	store *Store
}

func (r *TenantRepository) Create(_ context.Context, tenant *domain.Tenant, owner *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(owner.Email, "") {
		return repository.ErrDuplicate
	}

	now := s.now()
	tenant.ID = newID()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	tenancy.ForNewTenant(tenant).Stamp(&owner.TenantID)
	owner.ID = newID()
	owner.CreatedAt = now
	owner.UpdatedAt = now

	s.tenants[tenant.ID] = *tenant
	s.users[owner.ID] = *owner
	return nil
}

func (r *TenantRepository) Get(_ context.Context, tenantID string) (*domain.Tenant, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, ok := s.tenants[tenantID]
	if !ok {
		return nil, tenancy.ErrNotFound
	}
	return &tenant, nil
}

func (r *TenantRepository) ApplySubscriptionChange(_ context.Context, change repository.SubscriptionChange) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.billingEvents[change.EventKey]; seen {
		return repository.ErrDuplicate
	}
	tenant, ok := s.tenants[change.TenantID]
	if !ok {
		return tenancy.ErrNotFound
	}
	if tenant.SubscriptionStatus != change.From {
		return repository.ErrStatusChanged
	}

	s.billingEvents[change.EventKey] = change.TenantID
	tenant.SubscriptionStatus = change.To
	tenant.BillingCycleAnchor = change.Anchor
	tenant.UpdatedAt = s.now()
	s.tenants[change.TenantID] = tenant
	return nil
}

// UpdateSubscription overwrites the billing fields without recording an event. It seeds fixtures
// and local data; provider events go through ApplySubscriptionChange.
func (r *TenantRepository) UpdateSubscription(_ context.Context, tenantID string, status domain.SubscriptionStatus, anchor time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.tenants[tenantID]
	if !ok {
		return tenancy.ErrNotFound
	}
	tenant.SubscriptionStatus = status
	tenant.BillingCycleAnchor = anchor
	tenant.UpdatedAt = s.now()
	s.tenants[tenantID] = tenant
	return nil
}
