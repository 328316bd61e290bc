package reportssrv

import (
	"context"
	"testing"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/reports"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	readerCalls int
}

func (f *fakeReader) ProvinceDistribution(_ context.Context) ([]reports.ProvinceDistribution, error) {
	f.readerCalls++
	return []reports.ProvinceDistribution{
		{Province: "DKI Jakarta", TenantCount: 1, MemberCount: 120, Revenue: 250_000_000},
		{Province: "Jawa Timur", TenantCount: 1, MemberCount: 95, Revenue: 180_000_000},
	}, nil
}

func (f *fakeReader) TenantPerformance(_ context.Context) ([]reports.TenantPerformance, error) {
	rows := []reports.TenantPerformance{
		{TenantName: "Koperasi TKBM Tanjung Priok", TotalJobs: 40, CompletedJobs: 30, Revenue: 250_000_000},
		{TenantName: "Koperasi TKBM Tanjung Perak", TotalJobs: 0, CompletedJobs: 0, Revenue: 0},
	}
	for i := range rows {
		rows[i].ComputeEfficiency()
	}
	return rows, nil
}

func (f *fakeReader) TenantDashboard(_ context.Context, _ kernel.TenantID) (*reports.DashboardStats, error) {
	return &reports.DashboardStats{ActiveJobs: 5, ActiveWorkers: 120, Scope: reports.ScopeTenant}, nil
}

func (f *fakeReader) NationalDashboard(_ context.Context) (*reports.DashboardStats, error) {
	count := 8
	return &reports.DashboardStats{ActiveJobs: 37, TenantCount: &count, Scope: reports.ScopeNational}, nil
}

type fakeCache struct {
	stored *reports.NationalReport
}

func (f *fakeCache) GetNationalReport(_ context.Context) (*reports.NationalReport, error) {
	return f.stored, nil
}

func (f *fakeCache) StoreNationalReport(_ context.Context, report *reports.NationalReport) error {
	f.stored = report
	return nil
}

func superAuth() *kernel.AuthContext {
	id := kernel.NewUserID()
	return &kernel.AuthContext{UserID: &id, Scopes: []string{"*"}}
}

func tenantAuth(tenantID kernel.TenantID) *kernel.AuthContext {
	id := kernel.NewUserID()
	return &kernel.AuthContext{UserID: &id, TenantID: tenantID, Scopes: []string{"jobs:*", "billing:*"}}
}

func TestNationalReportRequiresNationalRead(t *testing.T) {
	svc := NewReportsService(&fakeReader{}, &fakeCache{})

	_, err := svc.NationalReport(context.Background(), tenantAuth(kernel.NewTenantID()))
	assert.Error(t, err)
}

func TestNationalReportGeneratesAndCaches(t *testing.T) {
	reader := &fakeReader{}
	cache := &fakeCache{}
	svc := NewReportsService(reader, cache)

	report, err := svc.NationalReport(context.Background(), superAuth())
	require.NoError(t, err)
	assert.Len(t, report.Provinces, 2)
	assert.Len(t, report.Tenants, 2)
	assert.InDelta(t, 75.0, report.Tenants[0].Efficiency, 0.001)
	assert.Zero(t, report.Tenants[1].Efficiency)
	require.NotNil(t, cache.stored, "freshly generated report is cached")

	// A second call is served from the cache without touching the reader.
	calls := reader.readerCalls
	again, err := svc.NationalReport(context.Background(), superAuth())
	require.NoError(t, err)
	assert.Equal(t, calls, reader.readerCalls)
	assert.Equal(t, report.GeneratedAt.Unix(), again.GeneratedAt.Unix())
}

func TestNationalReportServesCachedCopy(t *testing.T) {
	cached := &reports.NationalReport{GeneratedAt: time.Now().Add(-time.Minute)}
	svc := NewReportsService(&fakeReader{}, &fakeCache{stored: cached})

	report, err := svc.NationalReport(context.Background(), superAuth())
	require.NoError(t, err)
	assert.Equal(t, cached.GeneratedAt, report.GeneratedAt)
}

func TestDashboardScoping(t *testing.T) {
	svc := NewReportsService(&fakeReader{}, &fakeCache{})
	ctx := context.Background()

	stats, err := svc.Dashboard(ctx, tenantAuth(kernel.NewTenantID()))
	require.NoError(t, err)
	assert.Equal(t, reports.ScopeTenant, stats.Scope)
	assert.Nil(t, stats.TenantCount)

	stats, err = svc.Dashboard(ctx, superAuth())
	require.NoError(t, err)
	assert.Equal(t, reports.ScopeNational, stats.Scope)
	require.NotNil(t, stats.TenantCount)
	assert.Equal(t, 8, *stats.TenantCount)
}
