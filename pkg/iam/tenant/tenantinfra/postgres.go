package tenantinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// PostgresTenantRepository is the PostgreSQL implementation of TenantRepository.
type PostgresTenantRepository struct {
	db *sqlx.DB
}

// NewPostgresTenantRepository creates a new tenant repository instance.
func NewPostgresTenantRepository(db *sqlx.DB) tenant.TenantRepository {
	return &PostgresTenantRepository{
		db: db,
	}
}

const tenantColumns = `
	id, name, code, city, province, port_name, contact_email, contact_phone,
	status, member_count, created_at, updated_at`

// FindByID looks up a cooperative by ID.
func (r *PostgresTenantRepository) FindByID(ctx context.Context, id kernel.TenantID) (*tenant.Tenant, error) {
	query := `SELECT` + tenantColumns + `FROM tenants WHERE id = $1`

	var t tenant.Tenant
	err := r.db.GetContext(ctx, &t, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, tenant.ErrTenantNotFound().WithDetail("tenant_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find tenant by id", errx.TypeInternal).
			WithDetail("tenant_id", id.String())
	}

	return &t, nil
}

// FindByCode looks up a cooperative by its registration code.
func (r *PostgresTenantRepository) FindByCode(ctx context.Context, code string) (*tenant.Tenant, error) {
	query := `SELECT` + tenantColumns + `FROM tenants WHERE code = $1`

	var t tenant.Tenant
	err := r.db.GetContext(ctx, &t, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, tenant.ErrTenantNotFound().WithDetail("code", code)
		}
		return nil, errx.Wrap(err, "failed to find tenant by code", errx.TypeInternal).
			WithDetail("code", code)
	}

	return &t, nil
}

// FindAll lists every registered cooperative.
func (r *PostgresTenantRepository) FindAll(ctx context.Context) ([]*tenant.Tenant, error) {
	query := `SELECT` + tenantColumns + `FROM tenants ORDER BY name ASC`

	var tenants []tenant.Tenant
	err := r.db.SelectContext(ctx, &tenants, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list tenants", errx.TypeInternal)
	}

	result := make([]*tenant.Tenant, len(tenants))
	for i := range tenants {
		result[i] = &tenants[i]
	}

	return result, nil
}

// Save creates or updates a cooperative.
func (r *PostgresTenantRepository) Save(ctx context.Context, t tenant.Tenant) error {
	exists, err := r.tenantExists(ctx, t.ID)
	if err != nil {
		return errx.Wrap(err, "failed to check tenant existence", errx.TypeInternal)
	}

	if exists {
		return r.update(ctx, t)
	}
	return r.create(ctx, t)
}

func (r *PostgresTenantRepository) create(ctx context.Context, t tenant.Tenant) error {
	query := `
		INSERT INTO tenants (
			id, name, code, city, province, port_name, contact_email,
			contact_phone, status, member_count, created_at, updated_at
		) VALUES (
			:id, :name, :code, :city, :province, :port_name, :contact_email,
			:contact_phone, :status, :member_count, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return tenant.ErrTenantAlreadyExists().
					WithDetail("code", t.Code)
			}
		}
		return errx.Wrap(err, "failed to create tenant", errx.TypeInternal).
			WithDetail("tenant_id", t.ID.String()).
			WithDetail("code", t.Code)
	}

	return nil
}

func (r *PostgresTenantRepository) update(ctx context.Context, t tenant.Tenant) error {
	query := `
		UPDATE tenants SET
			name = :name,
			code = :code,
			city = :city,
			province = :province,
			port_name = :port_name,
			contact_email = :contact_email,
			contact_phone = :contact_phone,
			status = :status,
			member_count = :member_count,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return errx.Wrap(err, "failed to update tenant", errx.TypeInternal).
			WithDetail("tenant_id", t.ID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return tenant.ErrTenantNotFound().WithDetail("tenant_id", t.ID.String())
	}

	return nil
}

// Delete removes a cooperative.
func (r *PostgresTenantRepository) Delete(ctx context.Context, id kernel.TenantID) error {
	query := `DELETE FROM tenants WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete tenant", errx.TypeInternal).
			WithDetail("tenant_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return tenant.ErrTenantNotFound().WithDetail("tenant_id", id.String())
	}

	return nil
}

// ExistsByCode reports whether a registration code is taken.
func (r *PostgresTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tenants WHERE code = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, code)
	if err != nil {
		return false, errx.Wrap(err, "failed to check tenant code existence", errx.TypeInternal).
			WithDetail("code", code)
	}

	return exists, nil
}

func (r *PostgresTenantRepository) tenantExists(ctx context.Context, id kernel.TenantID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tenants WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id.String())
	return exists, err
}
