package reportsinfra

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/reports"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// PostgresReportReader runs the aggregate report queries against PostgreSQL.
type PostgresReportReader struct {
	db *sqlx.DB
}

// NewPostgresReportReader creates a new report reader instance.
func NewPostgresReportReader(db *sqlx.DB) reports.ReportReader {
	return &PostgresReportReader{
		db: db,
	}
}

// ProvinceDistribution aggregates cooperatives, members and settled revenue
// per province.
func (r *PostgresReportReader) ProvinceDistribution(ctx context.Context) ([]reports.ProvinceDistribution, error) {
	query := `
		SELECT
			t.province,
			COUNT(t.id) AS tenant_count,
			COALESCE(SUM(mc.member_count), 0) AS member_count,
			COALESCE(SUM(rv.revenue), 0) AS revenue
		FROM tenants t
		LEFT JOIN (
			SELECT tenant_id, COUNT(*) AS member_count
			FROM members WHERE is_active = TRUE
			GROUP BY tenant_id
		) mc ON mc.tenant_id = t.id
		LEFT JOIN (
			SELECT tenant_id, SUM(amount) AS revenue
			FROM invoices WHERE status = 'PAID'
			GROUP BY tenant_id
		) rv ON rv.tenant_id = t.id
		GROUP BY t.province
		ORDER BY t.province`

	var rows []reports.ProvinceDistribution
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to aggregate province distribution", errx.TypeInternal)
	}

	return rows, nil
}

// TenantPerformance aggregates each cooperative's job record and settled
// revenue. Efficiency is computed in Go from the returned counts.
func (r *PostgresReportReader) TenantPerformance(ctx context.Context) ([]reports.TenantPerformance, error) {
	query := `
		SELECT
			t.id AS tenant_id,
			t.name AS tenant_name,
			t.province,
			COALESCE(js.total_jobs, 0) AS total_jobs,
			COALESCE(js.completed_jobs, 0) AS completed_jobs,
			COALESCE(rv.revenue, 0) AS revenue
		FROM tenants t
		LEFT JOIN (
			SELECT
				tenant_id,
				COUNT(*) AS total_jobs,
				COUNT(*) FILTER (WHERE status = 'COMPLETED_APPROVED') AS completed_jobs
			FROM job_requests
			GROUP BY tenant_id
		) js ON js.tenant_id = t.id
		LEFT JOIN (
			SELECT tenant_id, SUM(amount) AS revenue
			FROM invoices WHERE status = 'PAID'
			GROUP BY tenant_id
		) rv ON rv.tenant_id = t.id
		ORDER BY revenue DESC, tenant_name`

	var rows []reports.TenantPerformance
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to aggregate tenant performance", errx.TypeInternal)
	}

	for i := range rows {
		rows[i].ComputeEfficiency()
	}

	return rows, nil
}

// TenantDashboard summarizes one cooperative for its landing page.
func (r *PostgresReportReader) TenantDashboard(ctx context.Context, tenantID kernel.TenantID) (*reports.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM job_requests
				WHERE tenant_id = $1
				AND status IN ('APPROVED', 'ASSIGNED', 'IN_PROGRESS')) AS active_jobs,
			(SELECT COUNT(*) FROM job_requests
				WHERE tenant_id = $1 AND status = 'COMPLETED_APPROVED') AS completed_jobs,
			(SELECT COUNT(*) FROM members
				WHERE tenant_id = $1 AND is_active = TRUE) AS active_workers,
			(SELECT COALESCE(SUM(amount), 0) FROM invoices
				WHERE tenant_id = $1 AND status = 'PAID') AS revenue`

	var stats reports.DashboardStats
	err := r.db.GetContext(ctx, &stats, query, tenantID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to build tenant dashboard", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	stats.Scope = reports.ScopeTenant
	return &stats, nil
}

// NationalDashboard summarizes every cooperative for the SUPERADMIN landing
// page.
func (r *PostgresReportReader) NationalDashboard(ctx context.Context) (*reports.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM job_requests
				WHERE status IN ('APPROVED', 'ASSIGNED', 'IN_PROGRESS')) AS active_jobs,
			(SELECT COUNT(*) FROM job_requests
				WHERE status = 'COMPLETED_APPROVED') AS completed_jobs,
			(SELECT COUNT(*) FROM members WHERE is_active = TRUE) AS active_workers,
			(SELECT COALESCE(SUM(amount), 0) FROM invoices
				WHERE status = 'PAID') AS revenue,
			(SELECT COUNT(*) FROM tenants) AS tenant_count`

	var stats reports.DashboardStats
	err := r.db.GetContext(ctx, &stats, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to build national dashboard", errx.TypeInternal)
	}

	stats.Scope = reports.ScopeNational
	return &stats, nil
}
