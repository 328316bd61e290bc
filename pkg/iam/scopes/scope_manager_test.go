package scopes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForRole(t *testing.T) {
	t.Run("superadmin expands to the super scope", func(t *testing.T) {
		assert.Equal(t, []string{ScopeAll}, ForRole("SUPERADMIN"))
	})

	t.Run("lookup is case and whitespace tolerant", func(t *testing.T) {
		assert.Equal(t, ForRole("admin"), ForRole("  ADMIN "))
	})

	t.Run("unknown role yields no scopes", func(t *testing.T) {
		assert.Empty(t, ForRole("janitor"))
	})

	t.Run("every dashboard role has a group", func(t *testing.T) {
		for _, role := range []string{"superadmin", "admin", "pbm", "teamleader", "worker"} {
			assert.NotEmpty(t, ForRole(role), "role %s has no scope group", role)
		}
	})
}

func TestValidateScope(t *testing.T) {
	assert.True(t, ValidateScope(ScopeAll))
	assert.True(t, ValidateScope(ScopeJobsApprove))
	assert.True(t, ValidateScope(ScopeNationalRead))
	assert.False(t, ValidateScope("jobs:teleport"))
	assert.False(t, ValidateScope(""))
}

func TestExpandWildcardScope(t *testing.T) {
	expanded := ExpandWildcardScope(ScopeJobsAll)
	assert.Contains(t, expanded, ScopeJobsRead)
	assert.Contains(t, expanded, ScopeJobsApprove)
	assert.NotContains(t, expanded, ScopeMembersRead)

	// Non-wildcard scopes pass through untouched.
	assert.Equal(t, []string{ScopeBillingIssue}, ExpandWildcardScope(ScopeBillingIssue))
}

func TestScopeGroupsOnlyContainValidScopes(t *testing.T) {
	for group, groupScopes := range ScopeGroups {
		for _, scope := range groupScopes {
			require.True(t, ValidateScope(scope), "group %s references undefined scope %s", group, scope)
		}
	}
}
