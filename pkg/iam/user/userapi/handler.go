package userapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/user"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/user/usersrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// UserHandlers serves the account management routes.
type UserHandlers struct {
	service *usersrv.UserService
}

// NewUserHandlers creates a new user handler instance.
func NewUserHandlers(service *usersrv.UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// RegisterRoutes registers the user routes on Fiber.
func (h *UserHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	users := router.Group("/users", authMiddleware.Authenticate())

	users.Post("/", authMiddleware.RequireScope(scopes.ScopeUsersWrite), h.CreateUser)
	users.Get("/", authMiddleware.RequireScope(scopes.ScopeUsersRead), h.ListUsers)
	users.Get("/:id", authMiddleware.RequireScope(scopes.ScopeUsersRead), h.GetUser)
	users.Put("/:id", authMiddleware.RequireScope(scopes.ScopeUsersWrite), h.UpdateUser)
	users.Post("/:id/deactivate", authMiddleware.RequireScope(scopes.ScopeUsersWrite), h.DeactivateUser)
	users.Post("/me/password", h.ChangeOwnPassword)
}

// CreateUser registers a dashboard account.
func (h *UserHandlers) CreateUser(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req user.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// Tenant-scoped callers always create accounts in their own cooperative.
	if !authContext.TenantID.IsEmpty() {
		tenantID := authContext.TenantID
		req.TenantID = &tenantID
	}

	u, err := h.service.CreateUser(c.Context(), authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(u.ToDTO())
}

// ListUsers lists the accounts of the caller's cooperative, or of the
// cooperative named by ?tenant_id for the superadmin.
func (h *UserHandlers) ListUsers(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	tenantID := authContext.TenantID
	if tenantID.IsEmpty() {
		tenantID = kernel.TenantID(c.Query("tenant_id"))
	}
	if tenantID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tenant_id is required"})
	}

	users, err := h.service.ListByTenant(c.Context(), authContext, tenantID)
	if err != nil {
		return err
	}

	items := make([]user.UserDetailsDTO, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToDTO())
	}

	return c.JSON(fiber.Map{
		"items": items,
		"total": len(items),
	})
}

// GetUser returns one account.
func (h *UserHandlers) GetUser(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.UserID(c.Params("id"))
	u, err := h.service.GetUser(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(u.ToDTO())
}

// UpdateUser edits an account.
func (h *UserHandlers) UpdateUser(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req user.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := kernel.UserID(c.Params("id"))
	u, err := h.service.UpdateUser(c.Context(), authContext, id, req)
	if err != nil {
		return err
	}

	return c.JSON(u.ToDTO())
}

// DeactivateUser blocks an account from signing in.
func (h *UserHandlers) DeactivateUser(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.UserID(c.Params("id"))
	if err := h.service.DeactivateUser(c.Context(), authContext, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User deactivated successfully"})
}

// ChangePasswordRequest is the payload for changing the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangeOwnPassword replaces the caller's own password.
func (h *UserHandlers) ChangeOwnPassword(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if len(req.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}

	if err := h.service.ChangePassword(c.Context(), authContext, *authContext.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}
