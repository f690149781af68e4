package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/api/dto"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/auth"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/service"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/validation"
)

// AuthHandler exposes signup, login and session cookie endpoints.
type AuthHandler struct {
	service   *service.AuthService
	transport *auth.SessionTransport
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, transport *auth.SessionTransport) *AuthHandler {
	return &AuthHandler{service: authService, transport: transport}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	session, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return err
	}
	h.transport.Attach(c, session.Tokens)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": sessionResponse(session)})
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	session, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.transport.Attach(c, session.Tokens)
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// Refresh POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	raw, ok := h.transport.ExtractRefresh(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	access, err := h.service.Refresh(c.UserContext(), raw)
	if err != nil {
		return err
	}
	h.transport.SetAccess(c, access)
	return c.JSON(fiber.Map{"data": dto.RefreshResponse{AccessExpiresAt: access.ExpiresAt}})
}

// Logout POST /api/auth/logout. Sessions are stateless, so clearing the cookies is enough.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.transport.Clear(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx, id domain.Identity) error {
	return c.JSON(fiber.Map{"data": id})
}

func sessionResponse(session *service.Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		User:             dto.NewUserResponse(session.User),
		TenantID:         session.User.TenantID,
		AccessExpiresAt:  session.Tokens.Access.ExpiresAt,
		RefreshExpiresAt: session.Tokens.Refresh.ExpiresAt,
	}
	if session.Tenant != nil {
		resp.CompanyName = session.Tenant.Name
	}
	return resp
}
