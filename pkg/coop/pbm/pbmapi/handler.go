package pbmapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm/pbmsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// PBMHandlers serves the stevedoring partner routes.
type PBMHandlers struct {
	service *pbmsrv.PBMService
}

// NewPBMHandlers creates a new PBM handler instance.
func NewPBMHandlers(service *pbmsrv.PBMService) *PBMHandlers {
	return &PBMHandlers{service: service}
}

// RegisterRoutes registers the PBM routes on Fiber.
func (h *PBMHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	pbms := router.Group("/pbms", authMiddleware.Authenticate())

	pbms.Get("/", authMiddleware.RequireScope(scopes.ScopePBMsRead), h.ListPBMs)
	pbms.Post("/", authMiddleware.RequireScope(scopes.ScopePBMsWrite), h.CreatePBM)
	pbms.Get("/:id", authMiddleware.RequireScope(scopes.ScopePBMsRead), h.GetPBM)
	pbms.Put("/:id", authMiddleware.RequireScope(scopes.ScopePBMsWrite), h.UpdatePBM)
	pbms.Post("/:id/deactivate", authMiddleware.RequireScope(scopes.ScopePBMsWrite), h.DeactivatePBM)
}

// ListPBMs filters, sorts and aggregates the visible PBM partners.
func (h *PBMHandlers) ListPBMs(c *fiber.Ctx) error {
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

	result, err := h.service.ListPBMs(c.Context(), authContext, criteria)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"items": result.Items,
		"stats": result.Stats,
		"total": result.Stats.Total,
	})
}

// GetPBM returns one PBM partner.
func (h *PBMHandlers) GetPBM(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.PBMID(c.Params("id"))
	p, err := h.service.GetPBM(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(p)
}

// CreatePBM registers a PBM partner.
func (h *PBMHandlers) CreatePBM(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req pbm.CreatePBMRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	p, err := h.service.CreatePBM(c.Context(), authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdatePBM edits a PBM partner.
func (h *PBMHandlers) UpdatePBM(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req pbm.UpdatePBMRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := kernel.PBMID(c.Params("id"))
	p, err := h.service.UpdatePBM(c.Context(), authContext, id, req)
	if err != nil {
		return err
	}

	return c.JSON(p)
}

// DeactivatePBM ends a partnership.
func (h *PBMHandlers) DeactivatePBM(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.PBMID(c.Params("id"))
	if err := h.service.DeactivatePBM(c.Context(), authContext, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "PBM partner deactivated successfully"})
}
