package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

func TestAuthorizeMatchesMembership(t *testing.T) {
	sets := []RoleSet{
		AllowRoles(),
		AllowRoles(domain.RoleAdmin),
		AllowRoles(domain.RoleCashier),
		AllowRoles(domain.RoleAdmin, domain.RoleCashier),
		AllowRoles(domain.RoleWaiter, domain.RoleCashier),
		AllRoles,
	}
	for _, set := range sets {
		for _, role := range domain.Roles {
			err := Authorize(testIdentity(role, "t1"), set)
			assert.Equal(t, set.Contains(role), err == nil, "role %s in %v", role, set)
		}
	}
}

func TestAuthorizeAdminIsNotImplicit(t *testing.T) {
	err := Authorize(testIdentity(domain.RoleAdmin, "t1"), AllowRoles(domain.RoleWaiter))
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	assert.Equal(t, []string{"WAITER"}, de.Details["required_role"])
	assert.Equal(t, "ADMIN", de.Details["your_role"])
}

func TestAuthorizeEmptySetDenies(t *testing.T) {
	for _, role := range domain.Roles {
		assert.Error(t, Authorize(testIdentity(role, "t1"), nil))
	}
}

func TestRoleSetNames(t *testing.T) {
	assert.Equal(t, []string{"ADMIN", "CASHIER", "WAITER"}, AllRoles.Names())
	assert.Empty(t, RoleSet(nil).Names())
}
