package jobsrv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/job"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// JobService coordinates the job request lifecycle. Every transition is
// guarded twice: the entity enforces the state machine, the service enforces
// the scope.
type JobService struct {
	jobRepo    job.JobRepository
	pbmRepo    pbm.PBMRepository
	memberRepo member.MemberRepository
	tenantRepo tenant.TenantRepository
	codePrefix string
	engine     *query.Engine[*job.JobRequest]
}

// NewJobService creates a new job service instance.
func NewJobService(
	jobRepo job.JobRepository,
	pbmRepo pbm.PBMRepository,
	memberRepo member.MemberRepository,
	tenantRepo tenant.TenantRepository,
	codePrefix string,
) *JobService {
	return &JobService{
		jobRepo:    jobRepo,
		pbmRepo:    pbmRepo,
		memberRepo: memberRepo,
		tenantRepo: tenantRepo,
		codePrefix: codePrefix,
		engine:     query.NewEngine(job.QueryDescriptor()),
	}
}

// ListJobs filters, sorts and aggregates the caller's visible job requests.
func (s *JobService) ListJobs(ctx context.Context, auth *kernel.AuthContext, c query.Criteria) (query.Result[*job.JobRequest], error) {
	var (
		jobs []*job.JobRequest
		err  error
	)

	if auth.TenantID.IsEmpty() {
		jobs, err = s.jobRepo.FindAll(ctx)
	} else {
		jobs, err = s.jobRepo.FindByTenant(ctx, auth.TenantID)
		c = c.WithoutRegion()
	}
	if err != nil {
		return query.Result[*job.JobRequest]{}, err
	}

	return s.engine.Run(jobs, c), nil
}

// GetJob fetches one job request, enforcing tenant boundaries.
func (s *JobService) GetJob(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID) (*job.JobRequest, error) {
	j, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardTenant(auth, j); err != nil {
		return nil, err
	}
	return j, nil
}

// CreateJob submits a job request for the caller's cooperative. Job codes
// are sequential per cooperative: <prefix>-<tenant code>-<seq>.
func (s *JobService) CreateJob(ctx context.Context, auth *kernel.AuthContext, req job.CreateJobRequest) (*job.JobRequest, error) {
	if !auth.HasScope(scopes.ScopeJobsWrite) {
		return nil, iam.ErrForbidden().WithDetail("required_scope", scopes.ScopeJobsWrite)
	}
	if auth.TenantID.IsEmpty() {
		return nil, iam.ErrForbidden().WithDetail("reason", "job requests are submitted within a cooperative")
	}

	p, err := s.pbmRepo.FindByID(ctx, req.PBMID)
	if err != nil {
		return nil, err
	}
	if p.TenantID != auth.TenantID {
		return nil, iam.ErrForbidden().WithDetail("reason", "PBM partner belongs to another cooperative")
	}
	if !p.IsActive {
		return nil, pbm.ErrPBMInactive().WithDetail("pbm_id", p.ID.String())
	}

	t, err := s.tenantRepo.FindByID(ctx, auth.TenantID)
	if err != nil {
		return nil, err
	}

	seq, err := s.jobRepo.NextJobSequence(ctx, auth.TenantID)
	if err != nil {
		return nil, err
	}

	scheduledDate := time.Now()
	if req.ScheduledDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.ScheduledDate); err == nil {
			scheduledDate = parsed
		}
	}

	now := time.Now()
	j := job.JobRequest{
		ID:              kernel.NewJobID(),
		TenantID:        auth.TenantID,
		JobCode:         fmt.Sprintf("%s-%s-%03d", s.codePrefix, t.Code, seq),
		PBMID:           p.ID,
		PBMName:         p.Name,
		JobType:         req.JobType,
		ShipName:        req.ShipName,
		PortLocation:    req.PortLocation,
		ScheduledDate:   scheduledDate,
		RequiredWorkers: req.RequiredWorkers,
		ContactPerson:   req.ContactPerson,
		Status:          job.StatusPending,
		Province:        t.Province,
		CreatedAt:       now,
		UpdatedAt:       &now,
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"job_id":   j.ID.String(),
		"job_code": j.JobCode,
		"pbm_id":   j.PBMID.String(),
	}).Info("job request submitted")

	return &j, nil
}

// ApproveJob accepts a pending request. Requires jobs:approve.
func (s *JobService) ApproveJob(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID) (*job.JobRequest, error) {
	return s.applyTransition(ctx, auth, id, scopes.ScopeJobsApprove, func(j *job.JobRequest) error {
		return j.Approve()
	}, "job request approved")
}

// RejectJob declines a pending request. Requires jobs:approve.
func (s *JobService) RejectJob(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID, reason string) (*job.JobRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, job.ErrReasonRequired()
	}
	return s.applyTransition(ctx, auth, id, scopes.ScopeJobsApprove, func(j *job.JobRequest) error {
		return j.Reject(reason)
	}, "job request rejected")
}

// AssignJob attaches a team leader to an approved request. Requires
// jobs:assign; the member must hold the team leader position.
func (s *JobService) AssignJob(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID, teamLeaderID kernel.MemberID) (*job.JobRequest, error) {
	if teamLeaderID.IsEmpty() {
		return nil, job.ErrLeaderRequired()
	}

	leader, err := s.memberRepo.FindByID(ctx, teamLeaderID)
	if err != nil {
		return nil, err
	}
	if !leader.IsTeamLeader() {
		return nil, member.ErrNotTeamLeader().WithDetail("member_id", leader.ID.String())
	}

	return s.applyTransition(ctx, auth, id, scopes.ScopeJobsAssign, func(j *job.JobRequest) error {
		if leader.TenantID != j.TenantID {
			return iam.ErrForbidden().WithDetail("reason", "team leader belongs to another cooperative")
		}
		return j.Assign(teamLeaderID)
	}, "team assigned to job")
}

// StartJob marks the assigned job as under way. Requires jobs:execute.
func (s *JobService) StartJob(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID) (*job.JobRequest, error) {
	return s.applyTransition(ctx, auth, id, scopes.ScopeJobsExecute, func(j *job.JobRequest) error {
		return j.Start()
	}, "job started")
}

// CompleteJobByTeamLeader records the team leader's completion report.
// Requires jobs:execute.
func (s *JobService) CompleteJobByTeamLeader(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID) (*job.JobRequest, error) {
	return s.applyTransition(ctx, auth, id, scopes.ScopeJobsExecute, func(j *job.JobRequest) error {
		return j.CompleteByTeamLeader()
	}, "job completion reported")
}

// ApproveJobCompletion verifies the reported completion. Requires jobs:verify.
func (s *JobService) ApproveJobCompletion(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID) (*job.JobRequest, error) {
	return s.applyTransition(ctx, auth, id, scopes.ScopeJobsVerify, func(j *job.JobRequest) error {
		return j.ApproveCompletion()
	}, "job completion approved")
}

// RejectJobCompletion declines the reported completion. Requires jobs:verify.
func (s *JobService) RejectJobCompletion(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID, reason string) (*job.JobRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, job.ErrReasonRequired()
	}
	return s.applyTransition(ctx, auth, id, scopes.ScopeJobsVerify, func(j *job.JobRequest) error {
		return j.RejectCompletion(reason)
	}, "job completion rejected")
}

func (s *JobService) applyTransition(ctx context.Context, auth *kernel.AuthContext, id kernel.JobID, requiredScope string, apply func(*job.JobRequest) error, logMsg string) (*job.JobRequest, error) {
	if !auth.HasScope(requiredScope) {
		return nil, iam.ErrForbidden().WithDetail("required_scope", requiredScope)
	}

	j, err := s.GetJob(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if err := apply(j); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, *j); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"job_id":   j.ID.String(),
		"job_code": j.JobCode,
		"status":   string(j.Status),
	}).Info(logMsg)

	return j, nil
}

func (s *JobService) guardTenant(auth *kernel.AuthContext, j *job.JobRequest) error {
	if auth.TenantID.IsEmpty() {
		return nil
	}
	if j.TenantID != auth.TenantID {
		return iam.ErrForbidden().WithDetail("reason", "job belongs to another cooperative")
	}
	return nil
}
