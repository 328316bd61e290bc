package jobsrv

import (
	"context"
	"testing"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/job"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// In-memory fakes
// ============================================================================

type fakeJobRepo struct {
	jobs map[kernel.JobID]job.JobRequest
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[kernel.JobID]job.JobRequest)}
}

func (f *fakeJobRepo) FindByID(_ context.Context, id kernel.JobID) (*job.JobRequest, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	return &j, nil
}

func (f *fakeJobRepo) FindByTenant(_ context.Context, tenantID kernel.TenantID) ([]*job.JobRequest, error) {
	var out []*job.JobRequest
	for id := range f.jobs {
		j := f.jobs[id]
		if j.TenantID == tenantID {
			out = append(out, &j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) FindAll(_ context.Context) ([]*job.JobRequest, error) {
	var out []*job.JobRequest
	for id := range f.jobs {
		j := f.jobs[id]
		out = append(out, &j)
	}
	return out, nil
}

func (f *fakeJobRepo) Save(_ context.Context, j job.JobRequest) error {
	f.jobs[j.ID] = j
	return nil
}

func (f *fakeJobRepo) Delete(_ context.Context, id kernel.JobID) error {
	delete(f.jobs, id)
	return nil
}

func (f *fakeJobRepo) NextJobSequence(_ context.Context, tenantID kernel.TenantID) (int, error) {
	n := 1
	for _, j := range f.jobs {
		if j.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type fakePBMRepo struct {
	pbms map[kernel.PBMID]pbm.PBM
}

func (f *fakePBMRepo) FindByID(_ context.Context, id kernel.PBMID) (*pbm.PBM, error) {
	p, ok := f.pbms[id]
	if !ok {
		return nil, pbm.ErrPBMNotFound()
	}
	return &p, nil
}

func (f *fakePBMRepo) FindByTenant(_ context.Context, _ kernel.TenantID) ([]*pbm.PBM, error) {
	return nil, nil
}
func (f *fakePBMRepo) FindAll(_ context.Context) ([]*pbm.PBM, error) { return nil, nil }
func (f *fakePBMRepo) Save(_ context.Context, p pbm.PBM) error {
	f.pbms[p.ID] = p
	return nil
}
func (f *fakePBMRepo) Delete(_ context.Context, _ kernel.PBMID) error { return nil }
func (f *fakePBMRepo) ExistsByCompanyCode(_ context.Context, _ kernel.TenantID, _ string) (bool, error) {
	return false, nil
}

type fakeMemberRepo struct {
	members map[kernel.MemberID]member.Member
}

func (f *fakeMemberRepo) FindByID(_ context.Context, id kernel.MemberID) (*member.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, member.ErrMemberNotFound()
	}
	return &m, nil
}

func (f *fakeMemberRepo) FindByTenant(_ context.Context, _ kernel.TenantID) ([]*member.Member, error) {
	return nil, nil
}
func (f *fakeMemberRepo) FindAll(_ context.Context) ([]*member.Member, error) { return nil, nil }
func (f *fakeMemberRepo) Save(_ context.Context, m member.Member) error {
	f.members[m.ID] = m
	return nil
}
func (f *fakeMemberRepo) Delete(_ context.Context, _ kernel.MemberID) error { return nil }
func (f *fakeMemberRepo) ExistsByMemberNumber(_ context.Context, _ kernel.TenantID, _ string) (bool, error) {
	return false, nil
}

type fakeTenantRepo struct {
	tenants map[kernel.TenantID]tenant.Tenant
}

func (f *fakeTenantRepo) FindByID(_ context.Context, id kernel.TenantID) (*tenant.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound()
	}
	return &t, nil
}

func (f *fakeTenantRepo) FindByCode(_ context.Context, _ string) (*tenant.Tenant, error) {
	return nil, tenant.ErrTenantNotFound()
}
func (f *fakeTenantRepo) FindAll(_ context.Context) ([]*tenant.Tenant, error) { return nil, nil }
func (f *fakeTenantRepo) Save(_ context.Context, t tenant.Tenant) error {
	f.tenants[t.ID] = t
	return nil
}
func (f *fakeTenantRepo) Delete(_ context.Context, _ kernel.TenantID) error { return nil }
func (f *fakeTenantRepo) ExistsByCode(_ context.Context, _ string) (bool, error) {
	return false, nil
}

// ============================================================================
// Fixture
// ============================================================================

type fixture struct {
	svc      *JobService
	jobRepo  *fakeJobRepo
	tenantID kernel.TenantID
	pbmID    kernel.PBMID
	leaderID kernel.MemberID
	workerID kernel.MemberID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tenantID := kernel.NewTenantID()
	pbmID := kernel.NewPBMID()
	leaderID := kernel.NewMemberID()
	workerID := kernel.NewMemberID()

	tenants := &fakeTenantRepo{tenants: map[kernel.TenantID]tenant.Tenant{
		tenantID: {
			ID:       tenantID,
			Name:     "Koperasi TKBM Tanjung Priok",
			Code:     "JKT",
			Province: "DKI Jakarta",
			Status:   tenant.TenantStatusActive,
		},
	}}

	pbms := &fakePBMRepo{pbms: map[kernel.PBMID]pbm.PBM{
		pbmID: {
			ID:       pbmID,
			TenantID: tenantID,
			Name:     "PT Pelabuhan Makmur",
			IsActive: true,
		},
	}}

	members := &fakeMemberRepo{members: map[kernel.MemberID]member.Member{
		leaderID: {
			ID:       leaderID,
			TenantID: tenantID,
			Position: member.PositionTeamLeader,
			IsActive: true,
		},
		workerID: {
			ID:       workerID,
			TenantID: tenantID,
			Position: member.PositionWorker,
			IsActive: true,
		},
	}}

	jobRepo := newFakeJobRepo()

	return &fixture{
		svc:      NewJobService(jobRepo, pbms, members, tenants, "PJ"),
		jobRepo:  jobRepo,
		tenantID: tenantID,
		pbmID:    pbmID,
		leaderID: leaderID,
		workerID: workerID,
	}
}

func (f *fixture) adminAuth() *kernel.AuthContext {
	id := kernel.NewUserID()
	return &kernel.AuthContext{
		UserID:   &id,
		TenantID: f.tenantID,
		Role:     "ADMIN",
		Scopes:   []string{"jobs:*", "members:*", "pbms:*"},
	}
}

func (f *fixture) leaderAuth() *kernel.AuthContext {
	id := kernel.NewUserID()
	return &kernel.AuthContext{
		UserID:   &id,
		TenantID: f.tenantID,
		Role:     "TEAMLEADER",
		Scopes:   []string{"jobs:read", "jobs:execute"},
	}
}

func (f *fixture) createJob(t *testing.T, auth *kernel.AuthContext) *job.JobRequest {
	t.Helper()
	j, err := f.svc.CreateJob(context.Background(), auth, job.CreateJobRequest{
		PBMID:           f.pbmID,
		JobType:         "Bongkar Curah",
		ShipName:        "MV Sinar Jaya",
		RequiredWorkers: 12,
	})
	require.NoError(t, err)
	return j
}

// ============================================================================
// Tests
// ============================================================================

func TestCreateJobGeneratesSequentialCodes(t *testing.T) {
	f := newFixture(t)
	auth := f.adminAuth()

	first := f.createJob(t, auth)
	second := f.createJob(t, auth)

	assert.Equal(t, "PJ-JKT-001", first.JobCode)
	assert.Equal(t, "PJ-JKT-002", second.JobCode)
	assert.Equal(t, job.StatusPending, first.Status)
	assert.Equal(t, "DKI Jakarta", first.Province)
}

func TestCreateJobRejectsForeignPBM(t *testing.T) {
	f := newFixture(t)

	otherID := kernel.NewUserID()
	otherAuth := &kernel.AuthContext{
		UserID:   &otherID,
		TenantID: kernel.NewTenantID(),
		Scopes:   []string{"jobs:*"},
	}

	_, err := f.svc.CreateJob(context.Background(), otherAuth, job.CreateJobRequest{
		PBMID:           f.pbmID,
		JobType:         "Muat Peti Kemas",
		ShipName:        "KM Nusantara",
		RequiredWorkers: 8,
	})
	assert.Error(t, err)
}

func TestFullLifecycleThroughService(t *testing.T) {
	f := newFixture(t)
	admin := f.adminAuth()
	leader := f.leaderAuth()
	ctx := context.Background()

	j := f.createJob(t, admin)

	j, err := f.svc.ApproveJob(ctx, admin, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusApproved, j.Status)

	j, err = f.svc.AssignJob(ctx, admin, j.ID, f.leaderID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusAssigned, j.Status)

	j, err = f.svc.StartJob(ctx, leader, j.ID)
	require.NoError(t, err)

	j, err = f.svc.CompleteJobByTeamLeader(ctx, leader, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompletedByTL, j.Status)

	j, err = f.svc.ApproveJobCompletion(ctx, admin, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompletedApproved, j.Status)
}

func TestTransitionScopeGuards(t *testing.T) {
	f := newFixture(t)
	admin := f.adminAuth()
	leader := f.leaderAuth()
	ctx := context.Background()

	j := f.createJob(t, admin)

	// A team leader cannot approve incoming requests.
	_, err := f.svc.ApproveJob(ctx, leader, j.ID)
	assert.Error(t, err)

	// Persisted state is untouched by the denied call.
	stored, err := f.svc.GetJob(ctx, admin, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusPending, stored.Status)
}

func TestAssignRequiresTeamLeaderPosition(t *testing.T) {
	f := newFixture(t)
	admin := f.adminAuth()
	ctx := context.Background()

	j := f.createJob(t, admin)
	_, err := f.svc.ApproveJob(ctx, admin, j.ID)
	require.NoError(t, err)

	_, err = f.svc.AssignJob(ctx, admin, j.ID, f.workerID)
	assert.Error(t, err)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	admin := f.adminAuth()

	j := f.createJob(t, admin)
	_, err := f.svc.RejectJob(context.Background(), admin, j.ID, "   ")
	assert.Error(t, err)
}

func TestListJobsIsTenantScoped(t *testing.T) {
	f := newFixture(t)
	admin := f.adminAuth()
	ctx := context.Background()

	f.createJob(t, admin)
	f.createJob(t, admin)

	// A foreign job sits in the same store.
	now := time.Now()
	foreign := job.JobRequest{
		ID:        kernel.NewJobID(),
		TenantID:  kernel.NewTenantID(),
		JobCode:   "PJ-SBY-001",
		Status:    job.StatusPending,
		CreatedAt: now,
		UpdatedAt: &now,
	}
	require.NoError(t, f.jobRepo.Save(ctx, foreign))

	result, err := f.svc.ListJobs(ctx, admin, query.NewCriteria())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.Total)
	for _, j := range result.Items {
		assert.Equal(t, f.tenantID, j.TenantID)
	}
}

func TestListJobsCrossTenantForSuperadmin(t *testing.T) {
	f := newFixture(t)
	admin := f.adminAuth()
	ctx := context.Background()

	f.createJob(t, admin)

	superID := kernel.NewUserID()
	super := &kernel.AuthContext{
		UserID: &superID,
		Scopes: []string{"*"},
	}

	now := time.Now()
	foreign := job.JobRequest{
		ID:        kernel.NewJobID(),
		TenantID:  kernel.NewTenantID(),
		JobCode:   "PJ-SBY-001",
		Status:    job.StatusPending,
		Province:  "Jawa Timur",
		CreatedAt: now,
		UpdatedAt: &now,
	}
	require.NoError(t, f.jobRepo.Save(ctx, foreign))

	result, err := f.svc.ListJobs(ctx, super, query.NewCriteria())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.Total)

	// Region narrowing only exists on the cross-tenant path.
	c := query.NewCriteria()
	c.Region = query.RegionJawaTimur
	result, err = f.svc.ListJobs(ctx, super, c)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Total)
	assert.Equal(t, "PJ-SBY-001", result.Items[0].JobCode)
}
