// Package memory holds map-backed repositories used when no Postgres DSN is configured and in
// tests. Every read goes through tenancy.Scope.Matches, the in-memory twin of Scope.Where.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

// Store is the shared state behind the memory repositories.
type Store struct {
	mu       sync.RWMutex
	tenants  map[string]tenantRow
	users    map[string]userRow
	products map[string]productRow
	orders   map[string]orderRow
	// billingEvents maps processed provider event keys to their tenant.
	billingEvents map[string]string
	now           func() time.Time
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		tenants:  make(map[string]tenantRow),
		users:    make(map[string]userRow),
		products: make(map[string]productRow),
		orders:   make(map[string]orderRow),

		billingEvents: make(map[string]string),
		now:           time.Now,
	}
}

// Repositories bundles every memory repository over one store.
type Repositories struct {
	Tenants  *TenantRepository
	Users    *UserRepository
	Products *ProductRepository
	Orders   *OrderRepository
}

// NewRepositories wires all repositories over a fresh store.
func NewRepositories() Repositories {
	s := NewStore()
	return Repositories{
		Tenants:  &TenantRepository{store: s},
		Users:    &UserRepository{store: s},
		Products: &ProductRepository{store: s},
		Orders:   &OrderRepository{store: s},
	}
}

func newID() string {
	return uuid.NewString()
}

func notFound(scope tenancy.Scope) error {
	if err := scope.Require(); err != nil {
		return err
	}
	return tenancy.ErrNotFound
}

// lookup hides a row that is missing or owned by another tenant behind the same error.
func lookup(scope tenancy.Scope, found bool, tenantID string) error {
	if !found {
		return notFound(scope)
	}
	return scope.Check(tenantID)
}

var (
	_ repository.TenantRepository  = (*TenantRepository)(nil)
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.ProductRepository = (*ProductRepository)(nil)
	_ repository.OrderRepository   = (*OrderRepository)(nil)
)
