package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

func identity(tenantID string) domain.Identity {
	return domain.Identity{UserID: "u1", Email: "a@b.c", Role: domain.RoleAdmin, TenantID: tenantID}
}

func TestWhere(t *testing.T) {
	scope := FromIdentity(identity("t1"))

	tests := []struct {
		name       string
		filter     Filter
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "tenant predicate only",
			wantClause: "tenant_id = $1",
			wantArgs:   []any{"t1"},
		},
		{
			name:       "caller predicates are appended",
			filter:     Filter{Eq("id", "42"), Eq("category", "Bebidas")},
			wantClause: "tenant_id = $1 AND id = $2 AND category = $3",
			wantArgs:   []any{"t1", "42", "Bebidas"},
		},
		{
			name:       "client tenant predicate cannot replace the bound tenant",
			filter:     Filter{Eq("tenant_id", "t2")},
			wantClause: "tenant_id = $1 AND tenant_id = $2",
			wantArgs:   []any{"t1", "t2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args, err := scope.Where(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestWhereFromOffsetsPlaceholders(t *testing.T) {
	clause, args, err := FromIdentity(identity("t1")).WhereFrom(Filter{Eq("id", "42")}, 3)
	require.NoError(t, err)
	assert.Equal(t, "tenant_id = $3 AND id = $4", clause)
	assert.Equal(t, []any{"t1", "42"}, args)
}

func TestWhereRejectsUnsafeColumns(t *testing.T) {
	_, _, err := FromIdentity(identity("t1")).Where(Filter{Eq("id = id OR 1", 1)})
	assert.Error(t, err)
}

func TestWhereRequiresScope(t *testing.T) {
	_, _, err := Scope{}.Where(nil)
	assert.ErrorIs(t, err, ErrNoScope)

	_, _, err = FromIdentity(domain.Identity{}).Where(nil)
	assert.ErrorIs(t, err, ErrNoScope)
}

func TestCheck(t *testing.T) {
	scope := FromIdentity(identity("t1"))

	assert.NoError(t, scope.Check("t1"))
	assert.ErrorIs(t, scope.Check("t2"), ErrNotFound)
	assert.ErrorIs(t, Scope{}.Check("t1"), ErrNoScope)
}

func TestStampOverwritesClientTenant(t *testing.T) {
	product := domain.Product{TenantID: "t2"}
	FromIdentity(identity("t1")).Stamp(&product.TenantID)
	assert.Equal(t, "t1", product.TenantID)
}

func TestForNewTenant(t *testing.T) {
	scope := ForNewTenant(&domain.Tenant{ID: "t9"})
	assert.Equal(t, "t9", scope.TenantID())
	assert.False(t, ForNewTenant(nil).Valid())
}

func TestMatches(t *testing.T) {
	scope := FromIdentity(identity("t1"))
	row := map[string]any{"id": "42", "category": "Bebidas"}
	lookup := func(name string) (any, bool) {
		v, ok := row[name]
		return v, ok
	}

	assert.True(t, scope.Matches("t1", Filter{Eq("id", "42")}, lookup))
	assert.False(t, scope.Matches("t2", Filter{Eq("id", "42")}, lookup))
	assert.False(t, scope.Matches("t1", Filter{Eq("tenant_id", "t2")}, lookup))
	assert.False(t, scope.Matches("t1", Filter{Eq("missing", "x")}, lookup))
}
