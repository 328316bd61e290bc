package memberapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member/membersrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// MemberHandlers serves the dock worker management routes.
type MemberHandlers struct {
	service *membersrv.MemberService
}

// NewMemberHandlers creates a new member handler instance.
func NewMemberHandlers(service *membersrv.MemberService) *MemberHandlers {
	return &MemberHandlers{service: service}
}

// RegisterRoutes registers the member routes on Fiber.
func (h *MemberHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	members := router.Group("/members", authMiddleware.Authenticate())

	members.Get("/", authMiddleware.RequireScope(scopes.ScopeMembersRead), h.ListMembers)
	members.Post("/", authMiddleware.RequireScope(scopes.ScopeMembersWrite), h.CreateMember)
	members.Get("/:id", authMiddleware.RequireScope(scopes.ScopeMembersRead), h.GetMember)
	members.Put("/:id", authMiddleware.RequireScope(scopes.ScopeMembersWrite), h.UpdateMember)
	members.Post("/:id/promote", authMiddleware.RequireScope(scopes.ScopeMembersWrite), h.PromoteMember)
	members.Post("/:id/deactivate", authMiddleware.RequireScope(scopes.ScopeMembersWrite), h.DeactivateMember)
}

// ListMembers filters, sorts and aggregates the visible members.
func (h *MemberHandlers) ListMembers(c *fiber.Ctx) error {
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

	result, err := h.service.ListMembers(c.Context(), authContext, criteria)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"items": result.Items,
		"stats": result.Stats,
		"total": result.Stats.Total,
	})
}

// GetMember returns one member.
func (h *MemberHandlers) GetMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.MemberID(c.Params("id"))
	m, err := h.service.GetMember(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(m)
}

// CreateMember registers a dock worker.
func (h *MemberHandlers) CreateMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req member.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	m, err := h.service.CreateMember(c.Context(), authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(m)
}

// UpdateMember edits a member.
func (h *MemberHandlers) UpdateMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req member.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := kernel.MemberID(c.Params("id"))
	m, err := h.service.UpdateMember(c.Context(), authContext, id, req)
	if err != nil {
		return err
	}

	return c.JSON(m)
}

// PromoteMember makes a worker a team leader.
func (h *MemberHandlers) PromoteMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.MemberID(c.Params("id"))
	m, err := h.service.PromoteMember(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(m)
}

// DeactivateMember removes a member from rotation.
func (h *MemberHandlers) DeactivateMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.MemberID(c.Params("id"))
	if err := h.service.DeactivateMember(c.Context(), authContext, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Member deactivated successfully"})
}
