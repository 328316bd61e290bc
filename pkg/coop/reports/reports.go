package reports

import (
	"net/http"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// ============================================================================
// National Report
// ============================================================================

// ProvinceDistribution aggregates one province's cooperatives.
type ProvinceDistribution struct {
	Province    string `db:"province" json:"province"`
	TenantCount int    `db:"tenant_count" json:"tenant_count"`
	MemberCount int    `db:"member_count" json:"member_count"`
	Revenue     int64  `db:"revenue" json:"revenue"`
}

// TenantPerformance aggregates one cooperative's operational record.
// Efficiency is the completed share of all job requests, in percent.
type TenantPerformance struct {
	TenantID      kernel.TenantID `db:"tenant_id" json:"tenant_id"`
	TenantName    string          `db:"tenant_name" json:"tenant_name"`
	Province      string          `db:"province" json:"province"`
	TotalJobs     int             `db:"total_jobs" json:"total_jobs"`
	CompletedJobs int             `db:"completed_jobs" json:"completed_jobs"`
	Revenue       int64           `db:"revenue" json:"revenue"`
	Efficiency    float64         `db:"-" json:"efficiency"`
}

// ComputeEfficiency derives the completed percentage. Zero jobs means zero
// efficiency rather than a division error.
func (t *TenantPerformance) ComputeEfficiency() {
	if t.TotalJobs == 0 {
		t.Efficiency = 0
		return
	}
	t.Efficiency = float64(t.CompletedJobs) / float64(t.TotalJobs) * 100
}

// NationalReport is the cross-cooperative view served to SUPERADMIN.
type NationalReport struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Provinces   []ProvinceDistribution `json:"provinces"`
	Tenants     []TenantPerformance    `json:"tenants"`
}

// ============================================================================
// Dashboard
// ============================================================================

// DashboardStats is the landing-page summary. Tenant-scoped actors see their
// own cooperative's numbers; SUPERADMIN sees the national totals with the
// cooperative count filled in.
type DashboardStats struct {
	ActiveJobs    int    `db:"active_jobs" json:"active_jobs"`
	CompletedJobs int    `db:"completed_jobs" json:"completed_jobs"`
	ActiveWorkers int    `db:"active_workers" json:"active_workers"`
	Revenue       int64  `db:"revenue" json:"revenue"`
	TenantCount   *int   `db:"tenant_count" json:"tenant_count,omitempty"`
	Scope         string `db:"-" json:"scope"`
}

// Dashboard scope labels.
const (
	ScopeTenant   = "TENANT"
	ScopeNational = "NATIONAL"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("REPORT")

var (
	CodeReportForbidden = ErrRegistry.Register("FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "National reports require cross-cooperative access")
)

func ErrReportForbidden() *errx.Error {
	return ErrRegistry.New(CodeReportForbidden)
}
