package billing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

type oracleMock struct {
	mock.Mock
}

func (m *oracleMock) GetSubscriptionStatus(ctx context.Context, tenantID string) (domain.SubscriptionState, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(domain.SubscriptionState), args.Error(1)
}

var gateIdentity = domain.Identity{UserID: "u1", Email: "a@b.c", Role: domain.RoleAdmin, TenantID: "t1"}

func TestGateAllowsReadsWithoutConsultingOracle(t *testing.T) {
	oracle := new(oracleMock)
	gate := NewGate(oracle, nil)

	require.NoError(t, gate.Permit(context.Background(), gateIdentity, domain.OperationRead))
	require.NoError(t, gate.Permit(context.Background(), gateIdentity, domain.OperationBillingResolution))
	oracle.AssertNotCalled(t, "GetSubscriptionStatus", mock.Anything, mock.Anything)
}

func TestGateMutate(t *testing.T) {
	tests := []struct {
		status  domain.SubscriptionStatus
		blocked bool
	}{
		{domain.SubscriptionActive, false},
		{domain.SubscriptionPastDue, false},
		{domain.SubscriptionSuspended, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			oracle := new(oracleMock)
			oracle.On("GetSubscriptionStatus", mock.Anything, "t1").
				Return(domain.SubscriptionState{Status: tt.status}, nil).Once()

			err := NewGate(oracle, nil).Permit(context.Background(), gateIdentity, domain.OperationMutate)
			oracle.AssertExpectations(t)
			if !tt.blocked {
				assert.NoError(t, err)
				return
			}
			de := apperrors.ToDomainError(err)
			require.NotNil(t, de)
			assert.Equal(t, http.StatusPaymentRequired, de.HTTPStatus)
			assert.Equal(t, "PAYMENT_REQUIRED", de.Code)
			assert.Equal(t, "SUSPENDED", de.Details["status"])
		})
	}
}

func TestGateFailsClosedWhenOracleErrors(t *testing.T) {
	oracle := new(oracleMock)
	oracle.On("GetSubscriptionStatus", mock.Anything, "t1").
		Return(domain.SubscriptionState{}, errors.New("db down"))

	err := NewGate(oracle, nil).Permit(context.Background(), gateIdentity, domain.OperationMutate)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}

func TestGateTreatsUnknownKindAsMutate(t *testing.T) {
	oracle := new(oracleMock)
	oracle.On("GetSubscriptionStatus", mock.Anything, "t1").
		Return(domain.SubscriptionState{Status: domain.SubscriptionSuspended}, nil)

	err := NewGate(oracle, nil).Permit(context.Background(), gateIdentity, domain.OperationKind(""))
	assert.Equal(t, http.StatusPaymentRequired, apperrors.ToDomainError(err).HTTPStatus)
}
