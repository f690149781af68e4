package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/api/dto"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/service"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/validation"
)

// OrdersHandler manages table orders.
type OrdersHandler struct {
	service *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{service: orderService}
}

// List GET /api/orders.
func (h *OrdersHandler) List(c *fiber.Ctx, id domain.Identity) error {
	filter, err := parseOrderQuery(c)
	if err != nil {
		return err
	}
	orders, err := h.service.List(c.UserContext(), id, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponses(orders)})
}

// Get GET /api/orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx, id domain.Identity) error {
	order, err := h.service.Get(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

// Create POST /api/orders.
func (h *OrdersHandler) Create(c *fiber.Ctx, id domain.Identity) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := h.service.Create(c.UserContext(), id, service.CreateOrderInput{
		TableNumber: req.TableNumber,
		Items:       lines,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

// UpdateStatus PATCH /api/orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx, id domain.Identity) error {
	var req dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return err
	}
	order, err := h.service.UpdateStatus(c.UserContext(), id, c.Params("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

func parseOrderQuery(c *fiber.Ctx) (repository.OrderFilter, error) {
	pageSize := parseInt(c.Query("page_size"), 50)
	page := parseInt(c.Query("page"), 1)
	filter := repository.OrderFilter{Limit: pageSize, Offset: (page - 1) * pageSize}

	if statusStr := strings.TrimSpace(c.Query("status")); statusStr != "" {
		status := domain.OrderStatus(strings.ToUpper(statusStr))
		if !status.Valid() {
			return filter, apperrors.NewValidationError("invalid status filter", map[string]any{"status": statusStr})
		}
		filter.Status = &status
	}
	if tableStr := c.Query("table"); tableStr != "" {
		table, err := strconv.Atoi(tableStr)
		if err != nil || table <= 0 {
			return filter, apperrors.NewValidationError("invalid table filter", map[string]any{"table": tableStr})
		}
		filter.TableNumber = &table
	}
	return filter, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
