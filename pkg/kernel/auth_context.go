package kernel

import "slices"

// AuthContext is the identity of the acting user, resolved by the auth
// middleware and passed explicitly into every service call. There is no
// hidden global session; if a service needs to know who is asking, it
// takes an AuthContext parameter.
type AuthContext struct {
	UserID   *UserID
	TenantID TenantID
	Email    string
	Name     string
	Role     string
	Scopes   []string
}

// IsValid reports whether the context identifies an authenticated actor.
func (ac *AuthContext) IsValid() bool {
	return ac.UserID != nil && !ac.UserID.IsEmpty()
}

// HasScope checks scope membership with wildcard support: "*" matches
// everything and "jobs:*" matches "jobs:read".
func (ac *AuthContext) HasScope(scope string) bool {
	for _, s := range ac.Scopes {
		if s == scope || s == "*" {
			return true
		}
		if len(s) > 2 && s[len(s)-2:] == ":*" {
			prefix := s[:len(s)-2]
			if len(scope) > len(prefix) && scope[:len(prefix)] == prefix && scope[len(prefix)] == ':' {
				return true
			}
		}
	}
	return false
}

// HasAnyScope reports whether any of the given scopes is granted.
func (ac *AuthContext) HasAnyScope(scopes ...string) bool {
	return slices.ContainsFunc(scopes, ac.HasScope)
}

// HasAllScopes reports whether every given scope is granted.
func (ac *AuthContext) HasAllScopes(scopes ...string) bool {
	for _, scope := range scopes {
		if !ac.HasScope(scope) {
			return false
		}
	}
	return true
}
