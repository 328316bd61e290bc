package equipmentinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/equipment"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// PostgresEquipmentRepository is the PostgreSQL implementation of
// EquipmentRepository.
type PostgresEquipmentRepository struct {
	db *sqlx.DB
}

// NewPostgresEquipmentRepository creates a new equipment repository instance.
func NewPostgresEquipmentRepository(db *sqlx.DB) equipment.EquipmentRepository {
	return &PostgresEquipmentRepository{
		db: db,
	}
}

const equipmentSelect = `
	SELECT
		e.id, e.tenant_id, e.category, e.name, e.inventory_number, e.brand,
		e.model, e.capacity, e.status, e.is_active, e.first_image_uploaded_at,
		e.created_at, e.updated_at,
		t.province AS province
	FROM heavy_equipment e
	JOIN tenants t ON t.id = e.tenant_id`

// FindByID looks up an equipment unit by ID.
func (r *PostgresEquipmentRepository) FindByID(ctx context.Context, id kernel.EquipmentID) (*equipment.HeavyEquipmentUnit, error) {
	query := equipmentSelect + ` WHERE e.id = $1`

	var unit equipment.HeavyEquipmentUnit
	err := r.db.GetContext(ctx, &unit, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, equipment.ErrEquipmentNotFound().WithDetail("equipment_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find equipment by id", errx.TypeInternal).
			WithDetail("equipment_id", id.String())
	}

	return &unit, nil
}

// FindByTenant lists every equipment unit of a cooperative.
func (r *PostgresEquipmentRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*equipment.HeavyEquipmentUnit, error) {
	query := equipmentSelect + ` WHERE e.tenant_id = $1 ORDER BY e.created_at DESC`

	var units []equipment.HeavyEquipmentUnit
	err := r.db.SelectContext(ctx, &units, query, tenantID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to find equipment by tenant", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	return toPointers(units), nil
}

// FindAll lists equipment units across every cooperative.
func (r *PostgresEquipmentRepository) FindAll(ctx context.Context) ([]*equipment.HeavyEquipmentUnit, error) {
	query := equipmentSelect + ` ORDER BY e.created_at DESC`

	var units []equipment.HeavyEquipmentUnit
	err := r.db.SelectContext(ctx, &units, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list equipment", errx.TypeInternal)
	}

	return toPointers(units), nil
}

// Save creates or updates an equipment unit.
func (r *PostgresEquipmentRepository) Save(ctx context.Context, unit equipment.HeavyEquipmentUnit) error {
	exists, err := r.unitExists(ctx, unit.ID)
	if err != nil {
		return errx.Wrap(err, "failed to check equipment existence", errx.TypeInternal)
	}

	if exists {
		return r.update(ctx, unit)
	}
	return r.create(ctx, unit)
}

func (r *PostgresEquipmentRepository) create(ctx context.Context, unit equipment.HeavyEquipmentUnit) error {
	query := `
		INSERT INTO heavy_equipment (
			id, tenant_id, category, name, inventory_number, brand, model,
			capacity, status, is_active, first_image_uploaded_at, created_at,
			updated_at
		) VALUES (
			:id, :tenant_id, :category, :name, :inventory_number, :brand, :model,
			:capacity, :status, :is_active, :first_image_uploaded_at, :created_at,
			:updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, unit)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return equipment.ErrEquipmentAlreadyExists().
					WithDetail("inventory_number", unit.InventoryNumber).
					WithDetail("tenant_id", unit.TenantID.String())
			}
		}
		return errx.Wrap(err, "failed to create equipment", errx.TypeInternal).
			WithDetail("equipment_id", unit.ID.String())
	}

	return nil
}

func (r *PostgresEquipmentRepository) update(ctx context.Context, unit equipment.HeavyEquipmentUnit) error {
	query := `
		UPDATE heavy_equipment SET
			category = :category,
			name = :name,
			inventory_number = :inventory_number,
			brand = :brand,
			model = :model,
			capacity = :capacity,
			status = :status,
			is_active = :is_active,
			first_image_uploaded_at = :first_image_uploaded_at,
			updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, unit)
	if err != nil {
		return errx.Wrap(err, "failed to update equipment", errx.TypeInternal).
			WithDetail("equipment_id", unit.ID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return equipment.ErrEquipmentNotFound().WithDetail("equipment_id", unit.ID.String())
	}

	return nil
}

// Delete removes an equipment unit.
func (r *PostgresEquipmentRepository) Delete(ctx context.Context, id kernel.EquipmentID) error {
	query := `DELETE FROM heavy_equipment WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete equipment", errx.TypeInternal).
			WithDetail("equipment_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return equipment.ErrEquipmentNotFound().WithDetail("equipment_id", id.String())
	}

	return nil
}

// ExistsByInventoryNumber reports whether an inventory number is taken within
// a cooperative.
func (r *PostgresEquipmentRepository) ExistsByInventoryNumber(ctx context.Context, tenantID kernel.TenantID, inventoryNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM heavy_equipment WHERE tenant_id = $1 AND inventory_number = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, tenantID.String(), inventoryNumber)
	if err != nil {
		return false, errx.Wrap(err, "failed to check inventory number existence", errx.TypeInternal).
			WithDetail("inventory_number", inventoryNumber)
	}

	return exists, nil
}

func (r *PostgresEquipmentRepository) unitExists(ctx context.Context, id kernel.EquipmentID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM heavy_equipment WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id.String())
	return exists, err
}

func toPointers(units []equipment.HeavyEquipmentUnit) []*equipment.HeavyEquipmentUnit {
	result := make([]*equipment.HeavyEquipmentUnit, len(units))
	for i := range units {
		result[i] = &units[i]
	}
	return result
}
