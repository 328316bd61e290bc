package equipment

import (
	"context"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// EquipmentRepository defines persistence for heavy equipment units.
type EquipmentRepository interface {
	FindByID(ctx context.Context, id kernel.EquipmentID) (*HeavyEquipmentUnit, error)
	FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*HeavyEquipmentUnit, error)
	FindAll(ctx context.Context) ([]*HeavyEquipmentUnit, error)
	Save(ctx context.Context, unit HeavyEquipmentUnit) error
	Delete(ctx context.Context, id kernel.EquipmentID) error
	ExistsByInventoryNumber(ctx context.Context, tenantID kernel.TenantID, inventoryNumber string) (bool, error)
}
