package billing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

// Gate blocks mutating operations of suspended tenants. Reads and the billing resolution flow
// stay available so a suspended tenant can see its data and pay.
type Gate struct {
	oracle StatusOracle
	logger *zap.Logger
}

// NewGate builds the gate.
func NewGate(oracle StatusOracle, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{oracle: oracle, logger: logger}
}

// Permit returns nil when the operation may proceed.
func (g *Gate) Permit(ctx context.Context, id domain.Identity, kind domain.OperationKind) error {
	switch kind {
	case domain.OperationRead, domain.OperationBillingResolution:
		return nil
	}

	// anything that is not explicitly read-only is treated as a write
	state, err := g.oracle.GetSubscriptionStatus(ctx, id.TenantID)
	if err != nil {
		g.logger.Error("subscription status unavailable", zap.String("tenant_id", id.TenantID), zap.Error(err))
		return apperrors.NewInternalError(fmt.Errorf("subscription status: %w", err))
	}
	if state.Status == domain.SubscriptionSuspended {
		g.logger.Info("write blocked by subscription",
			zap.String("tenant_id", id.TenantID),
			zap.String("user_id", id.UserID),
			zap.String("operation", string(kind)))
		return apperrors.NewPaymentRequired(string(state.Status))
	}
	return nil
}

// State returns the tenant's current state for the billing status endpoint.
func (g *Gate) State(ctx context.Context, id domain.Identity) (domain.SubscriptionState, error) {
	return g.oracle.GetSubscriptionStatus(ctx, id.TenantID)
}
