package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/events"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput opens a tab for a table.
type CreateOrderInput struct {
	TableNumber int
	Items       []OrderLine
}

// OrderService manages orders (comandas).
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, dispatcher events.Dispatcher, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{orders: orders, products: products, dispatcher: dispatcher, logger: logger}
}

// List returns the caller's orders, newest first.
func (s *OrderService) List(ctx context.Context, id domain.Identity, filter repository.OrderFilter) ([]domain.Order, error) {
	return s.orders.List(ctx, tenancy.FromIdentity(id), filter)
}

// Get returns one order of the caller's tenant.
func (s *OrderService) Get(ctx context.Context, id domain.Identity, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, tenancy.FromIdentity(id), orderID)
	if err != nil {
		return nil, notFoundAs("order", err)
	}
	return order, nil
}

// Create prices every line from the caller's own menu and opens the order. A product id of
// another tenant resolves to not found like any unknown id.
func (s *OrderService) Create(ctx context.Context, id domain.Identity, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperrors.NewValidationError("order must have at least one item", nil)
	}
	scope := tenancy.FromIdentity(id)

	order := &domain.Order{
		TableNumber: in.TableNumber,
		Status:      domain.OrderStatusOpen,
		Items:       make([]domain.OrderItem, 0, len(in.Items)),
	}
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, apperrors.NewValidationError("quantity must be positive", map[string]any{"productId": line.ProductID})
		}
		if line.Quantity > domain.MaxItemQuantity {
			return nil, apperrors.NewValidationError("quantity too large", map[string]any{
				"productId": line.ProductID,
				"max":       domain.MaxItemQuantity,
			})
		}
		product, err := s.products.GetByID(ctx, scope, line.ProductID)
		if err != nil {
			if isNotFound(err) {
				return nil, apperrors.NewNotFound("product", map[string]any{"productId": line.ProductID})
			}
			return nil, err
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.PriceInCents,
		})
	}
	total, err := order.Total()
	if err != nil {
		return nil, apperrors.NewValidationError("order total too large", nil)
	}
	order.TotalInCents = total

	if err := s.orders.Create(ctx, scope, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventOrderCreated, order.TenantID, events.ActorFrom(id), events.OrderCreatedPayload{
		OrderID:      order.ID,
		TableNumber:  order.TableNumber,
		TotalInCents: order.TotalInCents,
		ItemCount:    len(order.Items),
	}))
	return order, nil
}

// UpdateStatus closes or cancels an open order.
func (s *OrderService) UpdateStatus(ctx context.Context, id domain.Identity, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	scope := tenancy.FromIdentity(id)
	current, err := s.orders.GetByID(ctx, scope, orderID)
	if err != nil {
		return nil, notFoundAs("order", err)
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": current.Status,
			"to":   next,
		})
	}

	updated, err := s.orders.UpdateStatus(ctx, scope, orderID, current.Status, next)
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil, apperrors.NewConflict("order status changed concurrently", map[string]any{"to": next})
	}
	if err != nil {
		return nil, notFoundAs("order", err)
	}

	s.publish(ctx, events.NewEvent(events.EventOrderStatusChanged, updated.TenantID, events.ActorFrom(id), events.OrderStatusChangedPayload{
		OrderID:   updated.ID,
		OldStatus: current.Status,
		NewStatus: updated.Status,
	}))
	return updated, nil
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
