package iam

import (
	"net/http"
	"strings"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
)

// ============================================================================
// Roles
// ============================================================================

// Role is the closed set of actor roles. Authorization decisions are made on
// the scope set a role expands to, never by comparing role strings.
type Role string

const (
	RoleSuperadmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RolePBM        Role = "PBM"
	RoleTeamLeader Role = "TEAMLEADER"
	RoleWorker     Role = "WORKER"
)

var roleNames = map[Role]string{
	RoleSuperadmin: "Super Administrator",
	RoleAdmin:      "Admin Koperasi TKBM",
	RolePBM:        "PBM Manager",
	RoleTeamLeader: "Team Leader",
	RoleWorker:     "Worker",
}

// ParseRole maps a stored alias onto the closed enum. Unknown aliases are an
// error, not a silent fallthrough.
func ParseRole(alias string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(alias)))
	if _, ok := roleNames[r]; !ok {
		return "", ErrUnknownRole().WithDetail("alias", alias)
	}
	return r, nil
}

// DisplayName returns the human-readable role name.
func (r Role) DisplayName() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return string(r)
}

// IsTenantScoped reports whether actors with this role only ever see their
// own cooperative's data. Only the superadmin queries across tenants.
func (r Role) IsTenantScoped() bool {
	return r != RoleSuperadmin
}

// Roles lists every defined role.
func Roles() []Role {
	return []Role{RoleSuperadmin, RoleAdmin, RolePBM, RoleTeamLeader, RoleWorker}
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("IAM")

var (
	CodeUnauthorized = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthentication, http.StatusUnauthorized, "Authentication required")
	CodeForbidden    = ErrRegistry.Register("FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
	CodeUnknownRole  = ErrRegistry.Register("UNKNOWN_ROLE", errx.TypeValidation, http.StatusBadRequest, "Unknown role alias")
)

func ErrUnauthorized() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized)
}

func ErrForbidden() *errx.Error {
	return ErrRegistry.New(CodeForbidden)
}

func ErrUnknownRole() *errx.Error {
	return ErrRegistry.New(CodeUnknownRole)
}
