package reportsapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/reports/reportssrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
)

// ReportsHandlers serves the report and dashboard routes.
type ReportsHandlers struct {
	service *reportssrv.ReportsService
}

// NewReportsHandlers creates a new reports handler instance.
func NewReportsHandlers(service *reportssrv.ReportsService) *ReportsHandlers {
	return &ReportsHandlers{service: service}
}

// RegisterRoutes registers the report routes on Fiber.
func (h *ReportsHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	router.Get("/reports/national",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(scopes.ScopeNationalRead),
		h.NationalReport)

	router.Get("/dashboard", authMiddleware.Authenticate(), h.Dashboard)
}

// NationalReport serves the cross-cooperative report.
func (h *ReportsHandlers) NationalReport(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	report, err := h.service.NationalReport(c.Context(), authContext)
	if err != nil {
		return err
	}

	return c.JSON(report)
}

// Dashboard serves the caller's landing-page summary.
func (h *ReportsHandlers) Dashboard(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	stats, err := h.service.Dashboard(c.Context(), authContext)
	if err != nil {
		return err
	}

	return c.JSON(stats)
}
