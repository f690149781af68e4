package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/observability"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}

// SubscriptionPermitter decides whether the tenant's billing state allows an operation.
type SubscriptionPermitter interface {
	Permit(ctx context.Context, id domain.Identity, kind domain.OperationKind) error
}

// HandlerFunc is a business handler that receives the verified identity.
type HandlerFunc func(c *fiber.Ctx, id domain.Identity) error

// Policy declares, at registration time, who may call a route and what kind of operation it is.
type Policy struct {
	Roles     RoleSet
	Operation domain.OperationKind
}

// AuthMiddleware validates session cookies and gates handlers.
type AuthMiddleware struct {
	tokens    TokenVerifier
	transport *SessionTransport
	permits   SubscriptionPermitter
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenVerifier, transport *SessionTransport, permits SubscriptionPermitter, logger *zap.Logger, metrics *observability.Metrics) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		tokens:    tokens,
		transport: transport,
		permits:   permits,
		logger:    logger,
		metrics:   metrics,
	}
}

// Authenticate resolves the caller's identity. Every failure is the same 401 so that callers
// cannot tell a forged token from an expired one.
func (m *AuthMiddleware) Authenticate(c *fiber.Ctx) (domain.Identity, error) {
	raw, ok := m.transport.Extract(c)
	if !ok {
		m.metrics.RecordAuthDecision("missing_token")
		return domain.Identity{}, apperrors.NewUnauthenticated("authentication required")
	}

	id, err := m.tokens.Verify(raw)
	if err != nil {
		m.logger.Debug("token rejected", zap.Error(err), zap.String("path", c.Path()))
		m.metrics.RecordAuthDecision(rejectionOutcome(err))
		return domain.Identity{}, apperrors.NewUnauthenticated("authentication required")
	}
	c.Locals(observability.TenantLocalKey, id.TenantID)
	return id, nil
}

// Authenticated wraps a handler that any authenticated caller may invoke.
func (m *AuthMiddleware) Authenticated(h HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := m.Authenticate(c)
		if err != nil {
			return err
		}
		m.metrics.RecordAuthDecision("allowed")
		return h(c, id)
	}
}

// Protect is the composed gate in front of every business handler: authentication, then role
// authorization, then the tenant's subscription state.
func (m *AuthMiddleware) Protect(policy Policy, h HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := m.Authenticate(c)
		if err != nil {
			return err
		}

		if err := Authorize(id, policy.Roles); err != nil {
			m.logger.Info("role denied",
				zap.String("tenant_id", id.TenantID),
				zap.String("user_id", id.UserID),
				zap.String("role", string(id.Role)),
				zap.String("path", c.Path()))
			m.metrics.RecordAuthDecision("forbidden")
			return err
		}

		if m.permits != nil && policy.Operation != "" {
			if err := m.permits.Permit(c.UserContext(), id, policy.Operation); err != nil {
				m.metrics.RecordAuthDecision("payment_required")
				return err
			}
		}

		m.metrics.RecordAuthDecision("allowed")
		return h(c, id)
	}
}

func rejectionOutcome(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
