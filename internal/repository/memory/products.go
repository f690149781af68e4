package memory

import (
	"context"
	"sort"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

type productRow = domain.Product

func productColumn(p productRow) func(string) (any, bool) {
	return func(name string) (any, bool) {
		switch name {
		case "id":
			return p.ID, true
		case "category":
			return p.Category, true
		case "name":
			return p.Name, true
		}
		return nil, false
	}
}

func productPredicates(filter repository.ProductFilter) tenancy.Filter {
	if filter.Category == nil || *filter.Category == "" {
		return nil
	}
	return tenancy.Filter{tenancy.Eq("category", *filter.Category)}
}

// ProductRepository is the map-backed menu store.
type ProductRepository struct {
	store *Store
}

func (r *ProductRepository) Create(_ context.Context, scope tenancy.Scope, product *domain.Product) error {
	if err := scope.Require(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	scope.Stamp(&product.TenantID)
	now := s.now()
	product.ID = newID()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) Update(_ context.Context, scope tenancy.Scope, product *domain.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[product.ID]
	if err := lookup(scope, ok, current.TenantID); err != nil {
		return err
	}
	product.TenantID = current.TenantID
	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = s.now()
	s.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, scope tenancy.Scope, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[id]
	if err := lookup(scope, ok, current.TenantID); err != nil {
		return err
	}
	for _, order := range s.orders {
		for _, item := range order.Items {
			if item.ProductID == id {
				return repository.ErrReferenced
			}
		}
	}
	delete(s.products, id)
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, scope tenancy.Scope, id string) (*domain.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if err := lookup(scope, ok, product.TenantID); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) List(_ context.Context, scope tenancy.Scope, filter repository.ProductFilter) ([]domain.Product, error) {
	if err := scope.Require(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	predicates := productPredicates(filter)
	var products []domain.Product
	for _, product := range s.products {
		if scope.Matches(product.TenantID, predicates, productColumn(product)) {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Category != products[j].Category {
			return products[i].Category < products[j].Category
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}
