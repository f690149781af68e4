package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/api/dto"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/service"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/validation"
)

// ProductsHandler manages the tenant's catalog.
type ProductsHandler struct {
	service *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{service: productService}
}

// List GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx, id domain.Identity) error {
	products, err := h.service.List(c.UserContext(), id, c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponses(products)})
}

// Get GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx, id domain.Identity) error {
	product, err := h.service.Get(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Create POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx, id domain.Identity) error {
	input, err := parseProduct(c)
	if err != nil {
		return err
	}
	product, err := h.service.Create(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Update PUT /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx, id domain.Identity) error {
	input, err := parseProduct(c)
	if err != nil {
		return err
	}
	product, err := h.service.Update(c.UserContext(), id, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Delete DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx, id domain.Identity) error {
	if err := h.service.Delete(c.UserContext(), id, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseProduct(c *fiber.Ctx) (service.ProductInput, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ProductInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return service.ProductInput{}, err
	}
	return service.ProductInput{
		Name:         req.Name,
		PriceInCents: req.PriceInCents,
		Category:     req.Category,
	}, nil
}
