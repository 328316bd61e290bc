package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func authCtx(scopes ...string) *AuthContext {
	id := NewUserID()
	return &AuthContext{
		UserID: &id,
		Scopes: scopes,
	}
}

func TestAuthContextIsValid(t *testing.T) {
	assert.True(t, authCtx().IsValid())

	empty := UserID("")
	assert.False(t, (&AuthContext{UserID: &empty}).IsValid())
	assert.False(t, (&AuthContext{}).IsValid())
}

func TestHasScope(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		ac := authCtx("jobs:read")
		assert.True(t, ac.HasScope("jobs:read"))
		assert.False(t, ac.HasScope("jobs:write"))
	})

	t.Run("super scope matches everything", func(t *testing.T) {
		ac := authCtx("*")
		assert.True(t, ac.HasScope("jobs:approve"))
		assert.True(t, ac.HasScope("national:read"))
	})

	t.Run("prefix wildcard matches same concern only", func(t *testing.T) {
		ac := authCtx("jobs:*")
		assert.True(t, ac.HasScope("jobs:read"))
		assert.True(t, ac.HasScope("jobs:approve"))
		assert.False(t, ac.HasScope("members:read"))
	})

	t.Run("wildcard does not match sibling prefixes", func(t *testing.T) {
		ac := authCtx("jobs:*")
		assert.False(t, ac.HasScope("jobsarchive:read"))
	})

	t.Run("no scopes grants nothing", func(t *testing.T) {
		ac := authCtx()
		assert.False(t, ac.HasScope("jobs:read"))
	})
}

func TestHasAnyAndAllScopes(t *testing.T) {
	ac := authCtx("jobs:read", "members:*")

	assert.True(t, ac.HasAnyScope("billing:read", "jobs:read"))
	assert.False(t, ac.HasAnyScope("billing:read", "equipment:read"))

	assert.True(t, ac.HasAllScopes("jobs:read", "members:write"))
	assert.False(t, ac.HasAllScopes("jobs:read", "billing:read"))
	assert.True(t, ac.HasAllScopes())
}
