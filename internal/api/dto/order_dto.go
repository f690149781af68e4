package dto

import (
	"time"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=10000"`
}

// CreateOrderRequest payload for opening an order.
type CreateOrderRequest struct {
	TableNumber int                `json:"tableNumber" validate:"gt=0,lte=10000"`
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest payload for closing or cancelling an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CLOSED CANCELLED"`
}

// OrderItemResponse is the public view of an order line.
type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPriceInCents"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID           string              `json:"id"`
	TableNumber  int                 `json:"tableNumber"`
	Status       domain.OrderStatus  `json:"status"`
	TotalInCents int64               `json:"totalInCents"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// NewOrderResponse maps an order.
func NewOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return OrderResponse{
		ID:           o.ID,
		TableNumber:  o.TableNumber,
		Status:       o.Status,
		TotalInCents: o.TotalInCents,
		Items:        items,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// NewOrderResponses maps a list of orders.
func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
