package job

import (
	"testing"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingJob() *JobRequest {
	return &JobRequest{
		ID:       kernel.NewJobID(),
		TenantID: kernel.NewTenantID(),
		JobCode:  "PJ-JKT-001",
		Status:   StatusPending,
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	j := pendingJob()
	leader := kernel.NewMemberID()

	require.NoError(t, j.Approve())
	assert.Equal(t, StatusApproved, j.Status)

	require.NoError(t, j.Assign(leader))
	assert.Equal(t, StatusAssigned, j.Status)
	require.NotNil(t, j.TeamLeaderID)
	assert.Equal(t, leader, *j.TeamLeaderID)

	require.NoError(t, j.Start())
	require.NoError(t, j.CompleteByTeamLeader())
	require.NoError(t, j.ApproveCompletion())

	assert.Equal(t, StatusCompletedApproved, j.Status)
	assert.True(t, j.Status.IsTerminal())
}

func TestLifecycleRejection(t *testing.T) {
	j := pendingJob()

	require.NoError(t, j.Reject("no workers available this week"))
	assert.Equal(t, StatusRejected, j.Status)
	require.NotNil(t, j.RejectionReason)
	assert.Equal(t, "no workers available this week", *j.RejectionReason)
	assert.True(t, j.Status.IsTerminal())
}

func TestLifecycleCompletionRejection(t *testing.T) {
	j := pendingJob()
	require.NoError(t, j.Approve())
	require.NoError(t, j.Assign(kernel.NewMemberID()))
	require.NoError(t, j.Start())
	require.NoError(t, j.CompleteByTeamLeader())

	require.NoError(t, j.RejectCompletion("tonnage report missing"))
	assert.Equal(t, StatusCompletionRejected, j.Status)
	assert.True(t, j.Status.IsTerminal())
}

func TestInvalidTransitionsAreRejected(t *testing.T) {
	cases := []struct {
		name  string
		from  JobStatus
		apply func(*JobRequest) error
	}{
		{"start before assignment", StatusApproved, (*JobRequest).Start},
		{"approve an approved job", StatusApproved, (*JobRequest).Approve},
		{"complete before start", StatusAssigned, (*JobRequest).CompleteByTeamLeader},
		{"verify before completion report", StatusInProgress, (*JobRequest).ApproveCompletion},
		{"revive a rejected job", StatusRejected, (*JobRequest).Approve},
		{"restart a verified job", StatusCompletedApproved, (*JobRequest).Start},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j := pendingJob()
			j.Status = tc.from
			err := tc.apply(j)
			assert.Error(t, err)
			assert.Equal(t, tc.from, j.Status, "status must not change on a rejected transition")
		})
	}
}

func TestTransitionStampsUpdatedAt(t *testing.T) {
	j := pendingJob()
	require.Nil(t, j.UpdatedAt)

	require.NoError(t, j.Approve())
	require.NotNil(t, j.UpdatedAt)
	assert.WithinDuration(t, time.Now(), *j.UpdatedAt, time.Minute)
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCompletedApproved.IsTerminal())
	assert.True(t, StatusCompletionRejected.IsTerminal())

	for _, s := range []JobStatus{StatusPending, StatusApproved, StatusAssigned, StatusInProgress, StatusCompletedByTL} {
		assert.False(t, s.IsTerminal(), "status %s should not be terminal", s)
	}
}

func TestQueryDescriptorTimestamp(t *testing.T) {
	desc := QueryDescriptor()

	j := pendingJob()
	_, ok := desc.Timestamp(j)
	assert.False(t, ok, "a job without lifecycle activity has no known timestamp")

	now := time.Now()
	j.UpdatedAt = &now
	ts, ok := desc.Timestamp(j)
	require.True(t, ok)
	assert.Equal(t, now, ts)
}

func TestQueryDescriptorSearchFields(t *testing.T) {
	j := pendingJob()
	j.JobType = "Bongkar Curah"
	j.ShipName = "MV Sinar Jaya"
	j.PBMName = "PT Pelabuhan Makmur"

	fields := QueryDescriptor().SearchText(j)
	assert.Contains(t, fields, "Bongkar Curah")
	assert.Contains(t, fields, "MV Sinar Jaya")
	assert.Contains(t, fields, "PT Pelabuhan Makmur")
	assert.Contains(t, fields, "PJ-JKT-001")
}

func TestDescriptorStatusMatchesEngineContract(t *testing.T) {
	engine := query.NewEngine(QueryDescriptor())
	now := time.Now()

	jobs := []*JobRequest{
		{ID: kernel.NewJobID(), Status: StatusPending, UpdatedAt: &now},
		{ID: kernel.NewJobID(), Status: StatusInProgress, UpdatedAt: &now},
		{ID: kernel.NewJobID(), Status: StatusPending, UpdatedAt: &now},
	}

	c := query.NewCriteria()
	c.Status = string(StatusPending)
	result := engine.Run(jobs, c)

	assert.Equal(t, 2, result.Stats.Total)
	assert.Equal(t, 2, result.Stats.CountByStatus[string(StatusPending)])
}
