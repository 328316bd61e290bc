package billingapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/billing"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/billing/billingsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// BillingHandlers serves the invoice routes.
type BillingHandlers struct {
	service *billingsrv.BillingService
}

// NewBillingHandlers creates a new billing handler instance.
func NewBillingHandlers(service *billingsrv.BillingService) *BillingHandlers {
	return &BillingHandlers{service: service}
}

// RegisterRoutes registers the billing routes on Fiber. Lifecycle scopes are
// enforced by the service, the routes only require read access plus auth.
func (h *BillingHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	invoices := router.Group("/invoices", authMiddleware.Authenticate())

	invoices.Get("/", authMiddleware.RequireScope(scopes.ScopeBillingRead), h.ListInvoices)
	invoices.Post("/", authMiddleware.RequireScope(scopes.ScopeBillingWrite), h.CreateInvoice)
	invoices.Get("/:id", authMiddleware.RequireScope(scopes.ScopeBillingRead), h.GetInvoice)
	invoices.Put("/:id", authMiddleware.RequireScope(scopes.ScopeBillingWrite), h.UpdateInvoice)
	invoices.Post("/:id/issue", authMiddleware.RequireScope(scopes.ScopeBillingRead), h.IssueInvoice)
	invoices.Post("/:id/send", authMiddleware.RequireScope(scopes.ScopeBillingRead), h.SendInvoice)
	invoices.Post("/:id/pay", authMiddleware.RequireScope(scopes.ScopeBillingRead), h.MarkPaid)
	invoices.Post("/:id/overdue", authMiddleware.RequireScope(scopes.ScopeBillingRead), h.MarkOverdue)
	invoices.Post("/:id/cancel", authMiddleware.RequireScope(scopes.ScopeBillingRead), h.CancelInvoice)
}

// ListInvoices filters, sorts and aggregates the visible invoices.
func (h *BillingHandlers) ListInvoices(c *fiber.Ctx) error {
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

	list, err := h.service.ListInvoices(c.Context(), authContext, criteria)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"items":   list.Result.Items,
		"stats":   list.Result.Stats,
		"summary": list.Summary,
		"total":   list.Result.Stats.Total,
	})
}

// GetInvoice returns one invoice.
func (h *BillingHandlers) GetInvoice(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.InvoiceID(c.Params("id"))
	inv, err := h.service.GetInvoice(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(inv)
}

// CreateInvoice drafts an invoice.
func (h *BillingHandlers) CreateInvoice(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req billing.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	inv, err := h.service.CreateInvoice(c.Context(), authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(inv)
}

// UpdateInvoice edits a draft.
func (h *BillingHandlers) UpdateInvoice(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req billing.UpdateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := kernel.InvoiceID(c.Params("id"))
	inv, err := h.service.UpdateInvoice(c.Context(), authContext, id, req)
	if err != nil {
		return err
	}

	return c.JSON(inv)
}

// IssueInvoice puts a draft on the books.
func (h *BillingHandlers) IssueInvoice(c *fiber.Ctx) error {
	return h.transition(c, h.service.IssueInvoice)
}

// SendInvoice records delivery to the PBM.
func (h *BillingHandlers) SendInvoice(c *fiber.Ctx) error {
	return h.transition(c, h.service.SendInvoice)
}

// MarkPaid settles an invoice.
func (h *BillingHandlers) MarkPaid(c *fiber.Ctx) error {
	return h.transition(c, h.service.MarkInvoicePaid)
}

// MarkOverdue flags an unpaid invoice past its due date.
func (h *BillingHandlers) MarkOverdue(c *fiber.Ctx) error {
	return h.transition(c, h.service.MarkInvoiceOverdue)
}

// CancelInvoice voids an unpaid invoice.
func (h *BillingHandlers) CancelInvoice(c *fiber.Ctx) error {
	return h.transition(c, h.service.CancelInvoice)
}

func (h *BillingHandlers) transition(c *fiber.Ctx, apply func(ctx context.Context, auth *kernel.AuthContext, id kernel.InvoiceID) (*billing.Invoice, error)) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.InvoiceID(c.Params("id"))
	inv, err := apply(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(inv)
}
