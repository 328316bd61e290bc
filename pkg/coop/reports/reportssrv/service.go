package reportssrv

import (
	"context"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/reports"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
)

// ReportsService builds the national report and the landing-page dashboards.
type ReportsService struct {
	reader reports.ReportReader
	cache  reports.ReportCache
}

// NewReportsService creates a new reports service instance.
func NewReportsService(reader reports.ReportReader, cache reports.ReportCache) *ReportsService {
	return &ReportsService{
		reader: reader,
		cache:  cache,
	}
}

// NationalReport serves the cross-cooperative report, generating it only on
// a cache miss. Requires national:read, which only SUPERADMIN carries.
func (s *ReportsService) NationalReport(ctx context.Context, auth *kernel.AuthContext) (*reports.NationalReport, error) {
	if !auth.HasScope(scopes.ScopeNationalRead) {
		return nil, reports.ErrReportForbidden()
	}

	cached, err := s.cache.GetNationalReport(ctx)
	if err != nil {
		logx.Warnf("national report cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	provinces, err := s.reader.ProvinceDistribution(ctx)
	if err != nil {
		return nil, err
	}
	tenants, err := s.reader.TenantPerformance(ctx)
	if err != nil {
		return nil, err
	}

	report := &reports.NationalReport{
		GeneratedAt: time.Now(),
		Provinces:   provinces,
		Tenants:     tenants,
	}

	if err := s.cache.StoreNationalReport(ctx, report); err != nil {
		logx.Warnf("national report cache write failed: %v", err)
	}

	logx.WithFields(logx.Fields{
		"provinces": len(report.Provinces),
		"tenants":   len(report.Tenants),
	}).Info("national report generated")

	return report, nil
}

// Dashboard returns the caller's landing-page summary. Tenant-scoped actors
// get their cooperative's numbers, SUPERADMIN gets the national totals.
func (s *ReportsService) Dashboard(ctx context.Context, auth *kernel.AuthContext) (*reports.DashboardStats, error) {
	if auth.TenantID.IsEmpty() {
		return s.reader.NationalDashboard(ctx)
	}
	return s.reader.TenantDashboard(ctx, auth.TenantID)
}
