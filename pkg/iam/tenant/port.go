package tenant

import (
	"context"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// TenantRepository defines the persistence contract for cooperatives.
type TenantRepository interface {
	FindByID(ctx context.Context, id kernel.TenantID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	FindAll(ctx context.Context) ([]*Tenant, error)
	Save(ctx context.Context, t Tenant) error
	Delete(ctx context.Context, id kernel.TenantID) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
