package scopes

// ============================================================================
// COMMON SCOPES - Reusable across any project
// ============================================================================

const (
	// Super scope - full access to everything
	ScopeAll = "*"

	// User management scopes
	ScopeUsersAll    = "users:*"
	ScopeUsersRead   = "users:read"
	ScopeUsersWrite  = "users:write"
	ScopeUsersDelete = "users:delete"

	// Tenant (cooperative) management scopes
	ScopeTenantsAll    = "tenants:*"
	ScopeTenantsRead   = "tenants:read"
	ScopeTenantsWrite  = "tenants:write"
	ScopeTenantsDelete = "tenants:delete"

	// Reports/Analytics scopes (generic)
	ScopeReportsAll         = "reports:*"
	ScopeReportsView        = "reports:view"
	ScopeReportsExport      = "reports:export"
	ScopeAnalyticsDashboard = "analytics:dashboard"
)

// CommonScopeCategories organizes common scopes by domain
var CommonScopeCategories = map[string][]string{
	"Users": {
		ScopeUsersAll,
		ScopeUsersRead,
		ScopeUsersWrite,
		ScopeUsersDelete,
	},
	"Tenants": {
		ScopeTenantsAll,
		ScopeTenantsRead,
		ScopeTenantsWrite,
		ScopeTenantsDelete,
	},
	"Reports": {
		ScopeReportsAll,
		ScopeReportsView,
		ScopeReportsExport,
		ScopeAnalyticsDashboard,
	},
}

// CommonScopeDescriptions provides human-readable descriptions
var CommonScopeDescriptions = map[string]string{
	ScopeAll:                "Full access to all resources",
	ScopeUsersAll:           "Full user management access",
	ScopeUsersRead:          "View user accounts",
	ScopeUsersWrite:         "Create and edit user accounts",
	ScopeUsersDelete:        "Delete user accounts",
	ScopeTenantsAll:         "Full cooperative management access",
	ScopeTenantsRead:        "View cooperatives across regions",
	ScopeTenantsWrite:       "Create and edit cooperatives",
	ScopeTenantsDelete:      "Deactivate cooperatives",
	ScopeReportsAll:         "Full reporting access",
	ScopeReportsView:        "View reports",
	ScopeReportsExport:      "Export report data",
	ScopeAnalyticsDashboard: "View analytics dashboards",
}

// CommonScopeGroups provides pre-defined scope sets for common roles
var CommonScopeGroups = map[string][]string{
	"super_admin": {
		ScopeAll,
	},
	"viewer": {
		ScopeUsersRead,
		ScopeTenantsRead,
		ScopeReportsView,
	},
}
