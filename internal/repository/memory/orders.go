package memory

import (
	"context"
	"sort"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

type orderRow = domain.Order

func orderColumn(o orderRow) func(string) (any, bool) {
	return func(name string) (any, bool) {
		switch name {
		case "id":
			return o.ID, true
		case "status":
			return o.Status, true
		case "table_number":
			return o.TableNumber, true
		}
		return nil, false
	}
}

func orderPredicates(filter repository.OrderFilter) tenancy.Filter {
	var predicates tenancy.Filter
	if filter.Status != nil {
		predicates = append(predicates, tenancy.Eq("status", *filter.Status))
	}
	if filter.TableNumber != nil {
		predicates = append(predicates, tenancy.Eq("table_number", *filter.TableNumber))
	}
	return predicates
}

func cloneOrder(o orderRow) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}

// OrderRepository is the map-backed order store.
type OrderRepository struct {
	store *Store
}

func (r *OrderRepository) Create(_ context.Context, scope tenancy.Scope, order *domain.Order) error {
	if err := scope.Require(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	scope.Stamp(&order.TenantID)
	now := s.now()
	order.ID = newID()
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].ID = newID()
		order.Items[i].OrderID = order.ID
	}
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, scope tenancy.Scope, id string) (*domain.Order, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if err := lookup(scope, ok, order.TenantID); err != nil {
		return nil, err
	}
	out := cloneOrder(order)
	return &out, nil
}

func (r *OrderRepository) List(_ context.Context, scope tenancy.Scope, filter repository.OrderFilter) ([]domain.Order, error) {
	if err := scope.Require(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	predicates := orderPredicates(filter)
	var orders []domain.Order
	for _, order := range s.orders {
		if scope.Matches(order.TenantID, predicates, orderColumn(order)) {
			orders = append(orders, cloneOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(orders) {
		return nil, nil
	}
	orders = orders[offset:]
	if filter.Limit > 0 && filter.Limit < len(orders) {
		orders = orders[:filter.Limit]
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, scope tenancy.Scope, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if err := lookup(scope, ok, order.TenantID); err != nil {
		return nil, err
	}
	if order.Status != from {
		return nil, repository.ErrStatusChanged
	}
	order.Status = to
	order.UpdatedAt = s.now()
	s.orders[id] = order
	out := cloneOrder(order)
	return &out, nil
}
