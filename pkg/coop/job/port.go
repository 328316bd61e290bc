package job

import (
	"context"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// JobRepository defines the persistence contract for job requests. Find
// methods return the PBM name and the cooperative's province on every row.
type JobRepository interface {
	FindByID(ctx context.Context, id kernel.JobID) (*JobRequest, error)
	FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*JobRequest, error)
	FindAll(ctx context.Context) ([]*JobRequest, error)
	Save(ctx context.Context, j JobRequest) error
	Delete(ctx context.Context, id kernel.JobID) error
	NextJobSequence(ctx context.Context, tenantID kernel.TenantID) (int, error)
}
