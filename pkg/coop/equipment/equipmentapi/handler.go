package equipmentapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/equipment"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/equipment/equipmentsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// EquipmentHandlers serves the heavy equipment fleet routes.
type EquipmentHandlers struct {
	service *equipmentsrv.EquipmentService
}

// NewEquipmentHandlers creates a new equipment handler instance.
func NewEquipmentHandlers(service *equipmentsrv.EquipmentService) *EquipmentHandlers {
	return &EquipmentHandlers{service: service}
}

// RegisterRoutes registers the equipment routes on Fiber.
func (h *EquipmentHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	units := router.Group("/equipment", authMiddleware.Authenticate())

	units.Get("/", authMiddleware.RequireScope(scopes.ScopeEquipmentRead), h.ListEquipment)
	units.Post("/", authMiddleware.RequireScope(scopes.ScopeEquipmentWrite), h.CreateEquipment)
	units.Get("/:id", authMiddleware.RequireScope(scopes.ScopeEquipmentRead), h.GetEquipment)
	units.Put("/:id", authMiddleware.RequireScope(scopes.ScopeEquipmentWrite), h.UpdateEquipment)
	units.Post("/:id/status", authMiddleware.RequireScope(scopes.ScopeEquipmentWrite), h.ChangeStatus)
	units.Post("/:id/first-image", authMiddleware.RequireScope(scopes.ScopeEquipmentWrite), h.RecordFirstImage)
	units.Post("/:id/deactivate", authMiddleware.RequireScope(scopes.ScopeEquipmentWrite), h.DeactivateEquipment)
}

// ListEquipment filters, sorts and aggregates the visible units.
func (h *EquipmentHandlers) ListEquipment(c *fiber.Ctx) error {
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

	result, err := h.service.ListEquipment(c.Context(), authContext, criteria)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"items": result.Items,
		"stats": result.Stats,
		"total": result.Stats.Total,
	})
}

// GetEquipment returns one unit.
func (h *EquipmentHandlers) GetEquipment(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.EquipmentID(c.Params("id"))
	unit, err := h.service.GetEquipment(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(unit)
}

// CreateEquipment registers a unit.
func (h *EquipmentHandlers) CreateEquipment(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req equipment.CreateEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	unit, err := h.service.CreateEquipment(c.Context(), authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(unit)
}

// UpdateEquipment edits a unit.
func (h *EquipmentHandlers) UpdateEquipment(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req equipment.UpdateEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := kernel.EquipmentID(c.Params("id"))
	unit, err := h.service.UpdateEquipment(c.Context(), authContext, id, req)
	if err != nil {
		return err
	}

	return c.JSON(unit)
}

// ChangeStatus moves a unit between operational statuses.
func (h *EquipmentHandlers) ChangeStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req equipment.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := kernel.EquipmentID(c.Params("id"))
	unit, err := h.service.ChangeEquipmentStatus(c.Context(), authContext, id, req.Status)
	if err != nil {
		return err
	}

	return c.JSON(unit)
}

// RecordFirstImage stamps a unit's first photo upload time.
func (h *EquipmentHandlers) RecordFirstImage(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.EquipmentID(c.Params("id"))
	unit, err := h.service.RecordFirstImage(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(unit)
}

// DeactivateEquipment retires a unit.
func (h *EquipmentHandlers) DeactivateEquipment(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.EquipmentID(c.Params("id"))
	if err := h.service.DeactivateEquipment(c.Context(), authContext, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Equipment unit deactivated successfully"})
}
