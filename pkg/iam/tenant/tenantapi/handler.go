package tenantapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant/tenantsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// TenantHandlers serves the cooperative management routes.
type TenantHandlers struct {
	service *tenantsrv.TenantService
}

// NewTenantHandlers creates a new tenant handler instance.
func NewTenantHandlers(service *tenantsrv.TenantService) *TenantHandlers {
	return &TenantHandlers{service: service}
}

// RegisterRoutes registers the tenant routes on Fiber.
func (h *TenantHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	tenants := router.Group("/tenants", authMiddleware.Authenticate())

	tenants.Get("/", authMiddleware.RequireScope(scopes.ScopeTenantsRead), h.ListTenants)
	tenants.Post("/", authMiddleware.RequireScope(scopes.ScopeTenantsWrite), h.CreateTenant)
	tenants.Get("/:id", h.GetTenant)
	tenants.Put("/:id", authMiddleware.RequireScope(scopes.ScopeTenantsWrite), h.UpdateTenant)
	tenants.Post("/:id/approve", authMiddleware.RequireScope(scopes.ScopeTenantsWrite), h.ApproveTenant)
	tenants.Post("/:id/suspend", authMiddleware.RequireScope(scopes.ScopeTenantsWrite), h.SuspendTenant)
	tenants.Post("/:id/reactivate", authMiddleware.RequireScope(scopes.ScopeTenantsWrite), h.ReactivateTenant)
}

// ListTenants filters, sorts and aggregates cooperatives.
func (h *TenantHandlers) ListTenants(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	criteria := query.Parse(
		c.Query("q"),
		c.Query("status"),
		c.Query("period"),
		c.Query("region"),
		c.Query("sort"),
	)

	result, err := h.service.ListTenants(c.Context(), authContext, criteria)
	if err != nil {
		return err
	}

	items := make([]tenant.TenantDetailsDTO, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, t.ToDTO())
	}

	return c.JSON(fiber.Map{
		"items": items,
		"stats": result.Stats,
		"total": result.Stats.Total,
	})
}

// GetTenant returns one cooperative.
func (h *TenantHandlers) GetTenant(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.TenantID(c.Params("id"))
	t, err := h.service.GetTenant(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(t.ToDTO())
}

// CreateTenant registers a cooperative.
func (h *TenantHandlers) CreateTenant(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req tenant.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	t, err := h.service.CreateTenant(c.Context(), authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(t.ToDTO())
}

// UpdateTenant edits a cooperative's profile.
func (h *TenantHandlers) UpdateTenant(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req tenant.UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := kernel.TenantID(c.Params("id"))
	t, err := h.service.UpdateTenant(c.Context(), authContext, id, req)
	if err != nil {
		return err
	}

	return c.JSON(t.ToDTO())
}

// ApproveTenant activates a pending cooperative.
func (h *TenantHandlers) ApproveTenant(c *fiber.Ctx) error {
	return h.transition(c, h.service.ApproveTenant)
}

// SuspendTenant halts an active cooperative.
func (h *TenantHandlers) SuspendTenant(c *fiber.Ctx) error {
	return h.transition(c, h.service.SuspendTenant)
}

// ReactivateTenant restores a suspended cooperative.
func (h *TenantHandlers) ReactivateTenant(c *fiber.Ctx) error {
	return h.transition(c, h.service.ReactivateTenant)
}

func (h *TenantHandlers) transition(c *fiber.Ctx, apply func(ctx context.Context, auth *kernel.AuthContext, id kernel.TenantID) (*tenant.Tenant, error)) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.TenantID(c.Params("id"))
	t, err := apply(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(t.ToDTO())
}
