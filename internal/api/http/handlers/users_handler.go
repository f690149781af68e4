package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/api/dto"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/service"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/validation"
)

// UsersHandler manages the tenant's staff accounts.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx, id domain.Identity) error {
	users, err := h.service.List(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// Get GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx, id domain.Identity) error {
	user, err := h.service.Get(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Create POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx, id domain.Identity) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return err
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return err
	}

	user, err := h.service.Create(c.UserContext(), id, service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update PATCH /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx, id domain.Identity) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	input := service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role, err := parseRole(*req.Role)
		if err != nil {
			return err
		}
		input.Role = &role
	}

	user, err := h.service.Update(c.UserContext(), id, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx, id domain.Identity) error {
	if err := h.service.Delete(c.UserContext(), id, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseRole(value string) (domain.Role, error) {
	role, err := domain.ParseRole(value)
	if err != nil {
		return "", apperrors.NewValidationError("invalid role", map[string]any{"role": value})
	}
	return role, nil
}
