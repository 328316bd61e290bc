package scopes

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - TKBM Cooperative Management
// ============================================================================

const (
	// Job request scopes
	ScopeJobsAll      = "jobs:*"
	ScopeJobsRead     = "jobs:read"
	ScopeJobsWrite    = "jobs:write"
	ScopeJobsDelete   = "jobs:delete"
	ScopeJobsApprove  = "jobs:approve"  // Approve/reject incoming job requests
	ScopeJobsAssign   = "jobs:assign"   // Assign teams to approved jobs
	ScopeJobsExecute  = "jobs:execute"  // Start and complete field work
	ScopeJobsVerify   = "jobs:verify"   // Verify completion reported by team leaders

	// Member (dock worker) scopes
	ScopeMembersAll    = "members:*"
	ScopeMembersRead   = "members:read"
	ScopeMembersWrite  = "members:write"
	ScopeMembersDelete = "members:delete"

	// PBM (stevedoring company) scopes
	ScopePBMsAll    = "pbms:*"
	ScopePBMsRead   = "pbms:read"
	ScopePBMsWrite  = "pbms:write"
	ScopePBMsDelete = "pbms:delete"

	// Heavy equipment scopes
	ScopeEquipmentAll    = "equipment:*"
	ScopeEquipmentRead   = "equipment:read"
	ScopeEquipmentWrite  = "equipment:write"
	ScopeEquipmentDelete = "equipment:delete"

	// Billing/invoice scopes
	ScopeBillingAll    = "billing:*"
	ScopeBillingRead   = "billing:read"
	ScopeBillingWrite  = "billing:write"
	ScopeBillingIssue  = "billing:issue" // Issue and send invoices

	// National (cross-cooperative) scopes
	ScopeNationalRead = "national:read" // Query data across all cooperatives
)

// DomainScopeCategories organizes domain-specific scopes
var DomainScopeCategories = map[string][]string{
	"Jobs": {
		ScopeJobsAll,
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeJobsDelete,
		ScopeJobsApprove,
		ScopeJobsAssign,
		ScopeJobsExecute,
		ScopeJobsVerify,
	},
	"Members": {
		ScopeMembersAll,
		ScopeMembersRead,
		ScopeMembersWrite,
		ScopeMembersDelete,
	},
	"PBMs": {
		ScopePBMsAll,
		ScopePBMsRead,
		ScopePBMsWrite,
		ScopePBMsDelete,
	},
	"Equipment": {
		ScopeEquipmentAll,
		ScopeEquipmentRead,
		ScopeEquipmentWrite,
		ScopeEquipmentDelete,
	},
	"Billing": {
		ScopeBillingAll,
		ScopeBillingRead,
		ScopeBillingWrite,
		ScopeBillingIssue,
	},
	"National": {
		ScopeNationalRead,
	},
}

// DomainScopeDescriptions provides human-readable descriptions
var DomainScopeDescriptions = map[string]string{
	ScopeJobsAll:         "Full job request access",
	ScopeJobsRead:        "View job requests",
	ScopeJobsWrite:       "Create and edit job requests",
	ScopeJobsDelete:      "Delete job requests",
	ScopeJobsApprove:     "Approve or reject job requests",
	ScopeJobsAssign:      "Assign teams to approved jobs",
	ScopeJobsExecute:     "Start and report completion of field work",
	ScopeJobsVerify:      "Verify work completion",
	ScopeMembersAll:      "Full member management access",
	ScopeMembersRead:     "View cooperative members",
	ScopeMembersWrite:    "Register and edit members",
	ScopeMembersDelete:   "Deactivate members",
	ScopePBMsAll:         "Full PBM partner access",
	ScopePBMsRead:        "View PBM partners",
	ScopePBMsWrite:       "Register and edit PBM partners",
	ScopePBMsDelete:      "Deactivate PBM partners",
	ScopeEquipmentAll:    "Full heavy equipment access",
	ScopeEquipmentRead:   "View heavy equipment units",
	ScopeEquipmentWrite:  "Register and edit equipment units",
	ScopeEquipmentDelete: "Retire equipment units",
	ScopeBillingAll:      "Full billing access",
	ScopeBillingRead:     "View invoices",
	ScopeBillingWrite:    "Create and edit invoices",
	ScopeBillingIssue:    "Issue and send invoices",
	ScopeNationalRead:    "Query data across all cooperatives",
}

// DomainScopeGroups defines the scope set each dashboard role expands to.
// Group keys match the lowercased role alias stored on a user account.
var DomainScopeGroups = map[string][]string{
	"superadmin": {
		ScopeAll,
	},
	"admin": {
		ScopeJobsAll,
		ScopeMembersAll,
		ScopePBMsAll,
		ScopeEquipmentAll,
		ScopeBillingAll,
		ScopeUsersRead,
		ScopeUsersWrite,
		ScopeReportsView,
		ScopeAnalyticsDashboard,
	},
	"pbm": {
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeEquipmentRead,
		ScopeBillingRead,
	},
	"teamleader": {
		ScopeJobsRead,
		ScopeJobsExecute,
		ScopeMembersRead,
	},
	"worker": {
		ScopeJobsRead,
	},
}
