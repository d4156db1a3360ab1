package models

import "github.com/sayanlabs/auth-service/internal/utils"

// Role identifies which user table a subject lives in and which signing
// key namespaces its tokens. A token minted for one role is never valid
// for another even with a structurally valid signature, because the role
// claim is cross-checked against the key used to verify it.
type Role string

const (
	RoleStudent Role = "student"
	RoleAcademy Role = "academy"
	RoleAdmin   Role = "admin"
)

// AllRoles is the documented probe order for role-discovery verification.
// The order is a fixed constant, not incidental; callers that try every
// role's key iterate this slice and nothing else.
var AllRoles = []Role{RoleStudent, RoleAcademy, RoleAdmin}

// ParseRole rejects unrecognized roles at the boundary instead of letting
// them fall through to default-key behavior silently.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleAcademy, RoleAdmin:
		return Role(s), nil
	default:
		return "", utils.ErrUnknownRole
	}
}

func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the three closed roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAcademy, RoleAdmin:
		return true
	}
	return false
}
