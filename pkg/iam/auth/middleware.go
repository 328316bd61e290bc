package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// AuthMiddleware resolves the acting user from a bearer token and stashes an
// AuthContext in the request locals.
type AuthMiddleware struct {
	tokenService TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates the access token from the Authorization header or
// the access_token cookie.
func (am *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var token string

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
				token = parts[1]
			}
		}

		if token == "" {
			token = c.Cookies("access_token")
		}

		if token == "" {
			return iam.ErrUnauthorized()
		}

		claims, err := am.tokenService.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		authContext := &kernel.AuthContext{
			UserID:   &claims.UserID,
			TenantID: claims.TenantID,
			Email:    claims.Email,
			Name:     claims.Name,
			Role:     claims.Role,
			Scopes:   claims.Scopes,
		}

		c.Locals("auth", authContext)
		return c.Next()
	}
}

// RequireScope requires a specific scope.
func (am *AuthMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return iam.ErrUnauthorized()
		}

		if !authContext.HasScope(scope) {
			return iam.ErrForbidden().WithDetail("required_scope", scope)
		}

		return c.Next()
	}
}

// RequireAnyScope requires at least one of the provided scopes.
func (am *AuthMiddleware) RequireAnyScope(scopes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return iam.ErrUnauthorized()
		}

		if !authContext.HasAnyScope(scopes...) {
			return iam.ErrForbidden().WithDetail("required_scopes", scopes)
		}

		return c.Next()
	}
}

// RequireAllScopes requires every one of the provided scopes.
func (am *AuthMiddleware) RequireAllScopes(scopes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return iam.ErrUnauthorized()
		}

		if !authContext.HasAllScopes(scopes...) {
			return iam.ErrForbidden().WithDetail("required_scopes", scopes)
		}

		return c.Next()
	}
}

// GetAuthContext extracts the auth context from Fiber locals.
func GetAuthContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals("auth").(*kernel.AuthContext)
	return authContext, ok && authContext != nil && authContext.IsValid()
}
