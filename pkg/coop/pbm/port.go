package pbm

import (
	"context"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// PBMRepository defines the persistence contract for PBM partners. Find
// methods return the province of the owning cooperative on every row.
type PBMRepository interface {
	FindByID(ctx context.Context, id kernel.PBMID) (*PBM, error)
	FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*PBM, error)
	FindAll(ctx context.Context) ([]*PBM, error)
	Save(ctx context.Context, p PBM) error
	Delete(ctx context.Context, id kernel.PBMID) error
	ExistsByCompanyCode(ctx context.Context, tenantID kernel.TenantID, companyCode string) (bool, error)
}
