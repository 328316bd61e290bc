package iam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("accepts canonical aliases", func(t *testing.T) {
		role, err := ParseRole("SUPERADMIN")
		require.NoError(t, err)
		assert.Equal(t, RoleSuperadmin, role)
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		role, err := ParseRole("  teamleader ")
		require.NoError(t, err)
		assert.Equal(t, RoleTeamLeader, role)
	})

	t.Run("rejects unknown aliases", func(t *testing.T) {
		_, err := ParseRole("manager")
		assert.Error(t, err)
	})

	t.Run("rejects the empty alias", func(t *testing.T) {
		_, err := ParseRole("")
		assert.Error(t, err)
	})
}

func TestRoleIsTenantScoped(t *testing.T) {
	assert.False(t, RoleSuperadmin.IsTenantScoped())
	for _, role := range []Role{RoleAdmin, RolePBM, RoleTeamLeader, RoleWorker} {
		assert.True(t, role.IsTenantScoped(), "role %s should be tenant scoped", role)
	}
}

func TestMenuFor(t *testing.T) {
	t.Run("every role has a dashboard entry", func(t *testing.T) {
		for _, role := range Roles() {
			menu := MenuFor(role)
			require.NotEmpty(t, menu, "role %s has no menu", role)
			assert.Equal(t, "dashboard", menu[0].Key)
		}
	})

	t.Run("only the superadmin sees cooperative management", func(t *testing.T) {
		hasTenants := func(role Role) bool {
			for _, item := range MenuFor(role) {
				if item.Key == "tenants" {
					return true
				}
			}
			return false
		}

		assert.True(t, hasTenants(RoleSuperadmin))
		for _, role := range []Role{RoleAdmin, RolePBM, RoleTeamLeader, RoleWorker} {
			assert.False(t, hasTenants(role), "role %s should not see tenants", role)
		}
	})

	t.Run("unknown role degrades to an empty menu", func(t *testing.T) {
		assert.Empty(t, MenuFor(Role("GHOST")))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		menu := MenuFor(RoleWorker)
		menu[0].Key = "mutated"
		assert.Equal(t, "dashboard", MenuFor(RoleWorker)[0].Key)
	})
}
