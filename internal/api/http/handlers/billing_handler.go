package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/billing"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/service"
)

// BillingHandler exposes the subscription status, the resolution path and the provider webhook.
type BillingHandler struct {
	service *service.BillingService
}

// NewBillingHandler constructs handler.
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{service: billingService}
}

// Status GET /api/billing/status.
func (h *BillingHandler) Status(c *fiber.Ctx, id domain.Identity) error {
	status, err := h.service.Status(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": status})
}

// Resolve POST /api/billing/resolve.
func (h *BillingHandler) Resolve(c *fiber.Ctx, id domain.Identity) error {
	resolution, err := h.service.Resolve(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resolution})
}

// Webhook POST /api/billing/webhook. Authenticity comes from the body signature, not a session.
func (h *BillingHandler) Webhook(c *fiber.Ctx) error {
	result, err := h.service.HandleWebhook(c.UserContext(), c.Body(), c.Get(billing.SignatureHeader))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
