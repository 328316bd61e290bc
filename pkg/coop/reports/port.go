package reports

import (
	"context"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// ReportReader runs the aggregate queries the reports are built from. The
// reads are cross-cooperative, so only the service decides who may call them.
type ReportReader interface {
	ProvinceDistribution(ctx context.Context) ([]ProvinceDistribution, error)
	TenantPerformance(ctx context.Context) ([]TenantPerformance, error)
	TenantDashboard(ctx context.Context, tenantID kernel.TenantID) (*DashboardStats, error)
	NationalDashboard(ctx context.Context) (*DashboardStats, error)
}

// ReportCache stores generated national reports for their TTL window.
type ReportCache interface {
	GetNationalReport(ctx context.Context) (*NationalReport, error)
	StoreNationalReport(ctx context.Context, report *NationalReport) error
}
