// Package tenancy binds every data access to the tenant of the authenticated identity.
//
// A Scope cannot be built from a raw tenant id: it comes from a verified domain.Identity or from a
// tenant the server has just created. Repositories take a Scope as a mandatory parameter, so a
// tenant filter derived from request input cannot be expressed.
package tenancy

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

// TenantColumn is the foreign key every business table carries.
const TenantColumn = "tenant_id"

var (
	// ErrNoScope is returned when a data access is attempted without a tenant.
	ErrNoScope = errors.New("tenancy: missing tenant scope")
	// ErrNotFound hides resources owned by another tenant.
	ErrNotFound = errors.New("tenancy: resource not found")

	identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Scope is the tenant boundary of one request.
type Scope struct {
	tenantID string
}

// FromIdentity derives the scope from a verified identity.
func FromIdentity(id domain.Identity) Scope {
	return Scope{tenantID: id.TenantID}
}

// ForNewTenant scopes the bootstrap writes of a tenant created server-side during registration.
func ForNewTenant(t *domain.Tenant) Scope {
	if t == nil {
		return Scope{}
	}
	return Scope{tenantID: t.ID}
}

// TenantID returns the bound tenant.
func (s Scope) TenantID() string {
	return s.tenantID
}

// Valid reports whether the scope is bound to a tenant.
func (s Scope) Valid() bool {
	return s.tenantID != ""
}

// Require returns ErrNoScope for an unbound scope.
func (s Scope) Require() error {
	if !s.Valid() {
		return ErrNoScope
	}
	return nil
}

// Check hides a resource found by key that belongs to another tenant.
func (s Scope) Check(resourceTenantID string) error {
	if err := s.Require(); err != nil {
		return err
	}
	if resourceTenantID != s.tenantID {
		return ErrNotFound
	}
	return nil
}

// Stamp overwrites the tenant of an entity about to be created.
func (s Scope) Stamp(tenantID *string) {
	*tenantID = s.tenantID
}

// Predicate is an equality condition on one column.
type Predicate struct {
	Column string
	Value  any
}

// Eq builds a Predicate.
func Eq(column string, value any) Predicate {
	return Predicate{Column: column, Value: value}
}

// Filter is a conjunction of caller supplied predicates.
type Filter []Predicate

// Where renders the filter merged with the tenant predicate as a SQL boolean expression with
// positional placeholders starting at $1. The tenant predicate always comes first and caller
// predicates are only ever ANDed to it.
func (s Scope) Where(filter Filter) (string, []any, error) {
	return s.WhereFrom(filter, 1)
}

// WhereFrom is Where with placeholders numbered from start.
func (s Scope) WhereFrom(filter Filter, start int) (string, []any, error) {
	if err := s.Require(); err != nil {
		return "", nil, err
	}
	if start < 1 {
		start = 1
	}

	clauses := make([]string, 0, len(filter)+1)
	args := make([]any, 0, len(filter)+1)

	clauses = append(clauses, fmt.Sprintf("%s = $%d", TenantColumn, start))
	args = append(args, s.tenantID)

	for _, p := range filter {
		if !identifierPattern.MatchString(p.Column) {
			return "", nil, fmt.Errorf("tenancy: invalid column %q", p.Column)
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", p.Column, start+len(args)))
		args = append(args, p.Value)
	}
	return strings.Join(clauses, " AND "), args, nil
}

// Matches evaluates the scoped filter against an in-memory row, used by non-SQL stores.
func (s Scope) Matches(tenantID string, filter Filter, column func(name string) (any, bool)) bool {
	if !s.Valid() || tenantID != s.tenantID {
		return false
	}
	for _, p := range filter {
		if p.Column == TenantColumn {
			if p.Value != tenantID {
				return false
			}
			continue
		}
		v, ok := column(p.Column)
		if !ok || v != p.Value {
			return false
		}
	}
	return true
}
