package jobapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/job"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/job/jobsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// JobHandlers serves the job request routes.
type JobHandlers struct {
	service *jobsrv.JobService
}

// NewJobHandlers creates a new job handler instance.
func NewJobHandlers(service *jobsrv.JobService) *JobHandlers {
	return &JobHandlers{service: service}
}

// RegisterRoutes registers the job routes on Fiber. Transition-specific scope
// checks live in the service so the state machine and its guards stay in one
// place; the routes only require authentication plus read access.
func (h *JobHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	jobs := router.Group("/jobs", authMiddleware.Authenticate())

	jobs.Get("/", authMiddleware.RequireScope(scopes.ScopeJobsRead), h.ListJobs)
	jobs.Post("/", h.CreateJob)
	jobs.Get("/:id", authMiddleware.RequireScope(scopes.ScopeJobsRead), h.GetJob)
	jobs.Post("/:id/approve", h.ApproveJob)
	jobs.Post("/:id/reject", h.RejectJob)
	jobs.Post("/:id/assign", h.AssignJob)
	jobs.Post("/:id/start", h.StartJob)
	jobs.Post("/:id/complete", h.CompleteJob)
	jobs.Post("/:id/completion/approve", h.ApproveCompletion)
	jobs.Post("/:id/completion/reject", h.RejectCompletion)
}

// ListJobs filters, sorts and aggregates the visible job requests.
func (h *JobHandlers) ListJobs(c *fiber.Ctx) error {
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

	result, err := h.service.ListJobs(c.Context(), authContext, criteria)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"items": result.Items,
		"stats": result.Stats,
		"total": result.Stats.Total,
	})
}

// GetJob returns one job request.
func (h *JobHandlers) GetJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.JobID(c.Params("id"))
	j, err := h.service.GetJob(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(j)
}

// CreateJob submits a job request.
func (h *JobHandlers) CreateJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	j, err := h.service.CreateJob(c.Context(), authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(j)
}

// ApproveJob accepts a pending request.
func (h *JobHandlers) ApproveJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.ApproveJob)
}

// RejectJob declines a pending request.
func (h *JobHandlers) RejectJob(c *fiber.Ctx) error {
	return h.transitionWithReason(c, h.service.RejectJob)
}

// AssignJob attaches a team leader to an approved request.
func (h *JobHandlers) AssignJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req job.AssignJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := kernel.JobID(c.Params("id"))
	j, err := h.service.AssignJob(c.Context(), authContext, id, req.TeamLeaderID)
	if err != nil {
		return err
	}

	return c.JSON(j)
}

// StartJob marks the assigned job as under way.
func (h *JobHandlers) StartJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.StartJob)
}

// CompleteJob records the team leader's completion report.
func (h *JobHandlers) CompleteJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.CompleteJobByTeamLeader)
}

// ApproveCompletion verifies the reported completion.
func (h *JobHandlers) ApproveCompletion(c *fiber.Ctx) error {
	return h.transition(c, h.service.ApproveJobCompletion)
}

// RejectCompletion declines the reported completion.
func (h *JobHandlers) RejectCompletion(c *fiber.Ctx) error {
	return h.transitionWithReason(c, h.service.RejectJobCompletion)
}

func (h *JobHandlers) transition(c *fiber.Ctx, apply func(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID) (*job.JobRequest, error)) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	id := kernel.JobID(c.Params("id"))
	j, err := apply(c.Context(), authContext, id)
	if err != nil {
		return err
	}

	return c.JSON(j)
}

func (h *JobHandlers) transitionWithReason(c *fiber.Ctx, apply func(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID, reason string) (*job.JobRequest, error)) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req job.RejectJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := kernel.JobID(c.Params("id"))
	j, err := apply(c.Context(), authContext, id, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(j)
}
