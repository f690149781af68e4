package auth

import (
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

// RoleSet is the allow-list of roles for one operation. Roles are not ranked: ADMIN is only
// allowed where it is listed.
type RoleSet []domain.Role

// AllowRoles builds a RoleSet.
func AllowRoles(roles ...domain.Role) RoleSet {
	return RoleSet(roles)
}

// AllRoles allows every role of the closed set.
var AllRoles = AllowRoles(domain.Roles...)

// Contains reports whether role is allowed.
func (s RoleSet) Contains(role domain.Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// Names returns the role names for error payloads.
func (s RoleSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, r := range s {
		names = append(names, string(r))
	}
	return names
}

// Authorize checks the identity's role against the allow-list.
func Authorize(id domain.Identity, allowed RoleSet) error {
	if allowed.Contains(id.Role) {
		return nil
	}
	return apperrors.NewRoleForbidden(allowed.Names(), string(id.Role))
}
