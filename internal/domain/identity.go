package domain

import (
	"fmt"
	"strings"
)

// Role enumerates the job functions of a tenant's staff.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCashier Role = "CASHIER"
	RoleWaiter  Role = "WAITER"
)

// Roles lists the closed role set.
var Roles = []Role{RoleAdmin, RoleCashier, RoleWaiter}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleWaiter:
		return true
	}
	return false
}

// ParseRole converts a stored or submitted role name. The legacy "CAIXA" maps to CASHIER.
func ParseRole(value string) (Role, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "CAIXA" {
		return RoleCashier, nil
	}
	role := Role(v)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

// Identity holds the authenticated principal's claims for one session.
type Identity struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	TenantID string `json:"tenantId"`
}

// Complete reports whether every claim is present and the role is known.
func (i Identity) Complete() bool {
	return i.UserID != "" && i.Email != "" && i.TenantID != "" && i.Role.Valid()
}
