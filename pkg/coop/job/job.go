package job

import (
	"net/http"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// ============================================================================
// JobRequest Entity
// ============================================================================

// JobStatus tracks a job request through its lifecycle.
type JobStatus string

const (
	StatusPending            JobStatus = "PENDING"
	StatusApproved           JobStatus = "APPROVED"
	StatusRejected           JobStatus = "REJECTED"
	StatusAssigned           JobStatus = "ASSIGNED"
	StatusInProgress         JobStatus = "IN_PROGRESS"
	StatusCompletedByTL      JobStatus = "COMPLETED_BY_TL"
	StatusCompletedApproved  JobStatus = "COMPLETED_APPROVED"
	StatusCompletionRejected JobStatus = "COMPLETION_REJECTED"
)

// transitions is the authoritative lifecycle table. A status absent from the
// map is terminal.
var transitions = map[JobStatus][]JobStatus{
	StatusPending:       {StatusApproved, StatusRejected},
	StatusApproved:      {StatusAssigned},
	StatusAssigned:      {StatusInProgress},
	StatusInProgress:    {StatusCompletedByTL},
	StatusCompletedByTL: {StatusCompletedApproved, StatusCompletionRejected},
}

// CanTransition reports whether the lifecycle allows moving between the two
// statuses.
func CanTransition(from, to JobStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s JobStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// JobRequest is a PBM's request for dock workers on one vessel call.
// UpdatedAt is nullable: legacy imports carry no lifecycle timestamp, and
// such jobs only appear under the unbounded period filter.
type JobRequest struct {
	ID              kernel.JobID     `db:"id" json:"id"`
	TenantID        kernel.TenantID  `db:"tenant_id" json:"tenant_id"`
	JobCode         string           `db:"job_code" json:"job_code"`
	PBMID           kernel.PBMID     `db:"pbm_id" json:"pbm_id"`
	PBMName         string           `db:"pbm_name" json:"pbm_name"`
	JobType         string           `db:"job_type" json:"job_type"`
	ShipName        string           `db:"ship_name" json:"ship_name"`
	PortLocation    string           `db:"port_location" json:"port_location"`
	ScheduledDate   time.Time        `db:"scheduled_date" json:"scheduled_date"`
	RequiredWorkers int              `db:"required_workers" json:"required_workers"`
	ContactPerson   string           `db:"contact_person" json:"contact_person"`
	TeamLeaderID    *kernel.MemberID `db:"team_leader_id" json:"team_leader_id,omitempty"`
	Status          JobStatus        `db:"status" json:"status"`
	RejectionReason *string          `db:"rejection_reason" json:"rejection_reason,omitempty"`
	Province        string           `db:"province" json:"province"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time       `db:"updated_at" json:"updated_at,omitempty"`
}

// ============================================================================
// Lifecycle Methods
// ============================================================================

func (j *JobRequest) transition(to JobStatus) error {
	if !CanTransition(j.Status, to) {
		return ErrInvalidTransition().
			WithDetail("from", string(j.Status)).
			WithDetail("to", string(to))
	}
	j.Status = to
	now := time.Now()
	j.UpdatedAt = &now
	return nil
}

// Approve accepts a pending request.
func (j *JobRequest) Approve() error {
	return j.transition(StatusApproved)
}

// Reject declines a pending request with a reason.
func (j *JobRequest) Reject(reason string) error {
	if err := j.transition(StatusRejected); err != nil {
		return err
	}
	j.RejectionReason = &reason
	return nil
}

// Assign attaches a team leader to an approved request.
func (j *JobRequest) Assign(teamLeaderID kernel.MemberID) error {
	if err := j.transition(StatusAssigned); err != nil {
		return err
	}
	j.TeamLeaderID = &teamLeaderID
	return nil
}

// Start marks the assigned job as under way.
func (j *JobRequest) Start() error {
	return j.transition(StatusInProgress)
}

// CompleteByTeamLeader records the team leader's completion report.
func (j *JobRequest) CompleteByTeamLeader() error {
	return j.transition(StatusCompletedByTL)
}

// ApproveCompletion verifies the reported completion.
func (j *JobRequest) ApproveCompletion() error {
	return j.transition(StatusCompletedApproved)
}

// RejectCompletion declines the reported completion with a reason.
func (j *JobRequest) RejectCompletion(reason string) error {
	if err := j.transition(StatusCompletionRejected); err != nil {
		return err
	}
	j.RejectionReason = &reason
	return nil
}

// ============================================================================
// Query Descriptor
// ============================================================================

// QueryDescriptor wires job requests into the list query engine. The time
// window runs over the last lifecycle change; jobs that never had one only
// show up under the unbounded window.
func QueryDescriptor() query.Descriptor[*JobRequest] {
	return query.Descriptor[*JobRequest]{
		SearchText: func(j *JobRequest) []string {
			return []string{j.JobType, j.ShipName, j.PBMName, j.JobCode}
		},
		Status: func(j *JobRequest) string {
			return string(j.Status)
		},
		Timestamp: func(j *JobRequest) (time.Time, bool) {
			if j.UpdatedAt == nil {
				return time.Time{}, false
			}
			return *j.UpdatedAt, true
		},
		Province: func(j *JobRequest) string {
			return j.Province
		},
	}
}

// ============================================================================
// DTOs
// ============================================================================

// CreateJobRequest is the payload for submitting a job request.
type CreateJobRequest struct {
	PBMID           kernel.PBMID `json:"pbm_id" validate:"required"`
	JobType         string       `json:"job_type" validate:"required"`
	ShipName        string       `json:"ship_name" validate:"required"`
	PortLocation    string       `json:"port_location"`
	ScheduledDate   string       `json:"scheduled_date"` // YYYY-MM-DD
	RequiredWorkers int          `json:"required_workers" validate:"required,min=1"`
	ContactPerson   string       `json:"contact_person"`
}

// RejectJobRequest carries the mandatory rejection reason.
type RejectJobRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// AssignJobRequest names the team leader for an approved job.
type AssignJobRequest struct {
	TeamLeaderID kernel.MemberID `json:"team_leader_id" validate:"required"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("JOB")

var (
	CodeJobNotFound       = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job request not found")
	CodeInvalidTransition = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Job status transition not allowed")
	CodeReasonRequired    = ErrRegistry.Register("REASON_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "A reason is required")
	CodeLeaderRequired    = ErrRegistry.Register("LEADER_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "A team leader is required")
	CodeNotAssignedLeader = ErrRegistry.Register("NOT_ASSIGNED_LEADER", errx.TypeAuthorization, http.StatusForbidden, "Job is assigned to another team leader")
)

func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrInvalidTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition)
}

func ErrReasonRequired() *errx.Error {
	return ErrRegistry.New(CodeReasonRequired)
}

func ErrLeaderRequired() *errx.Error {
	return ErrRegistry.New(CodeLeaderRequired)
}

func ErrNotAssignedLeader() *errx.Error {
	return ErrRegistry.New(CodeNotAssignedLeader)
}
