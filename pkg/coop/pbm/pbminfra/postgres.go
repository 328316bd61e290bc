package pbminfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// PostgresPBMRepository is the PostgreSQL implementation of PBMRepository.
type PostgresPBMRepository struct {
	db *sqlx.DB
}

// NewPostgresPBMRepository creates a new PBM repository instance.
func NewPostgresPBMRepository(db *sqlx.DB) pbm.PBMRepository {
	return &PostgresPBMRepository{
		db: db,
	}
}

const pbmSelect = `
	SELECT
		p.id, p.tenant_id, p.name, p.company_code, p.contact_person, p.phone,
		p.email, p.address, p.is_active, p.created_at, p.updated_at,
		t.province AS province
	FROM pbms p
	JOIN tenants t ON t.id = p.tenant_id`

// FindByID looks up a PBM partner by ID.
func (r *PostgresPBMRepository) FindByID(ctx context.Context, id kernel.PBMID) (*pbm.PBM, error) {
	query := pbmSelect + ` WHERE p.id = $1`

	var p pbm.PBM
	err := r.db.GetContext(ctx, &p, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, pbm.ErrPBMNotFound().WithDetail("pbm_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find pbm by id", errx.TypeInternal).
			WithDetail("pbm_id", id.String())
	}

	return &p, nil
}

// FindByTenant lists every PBM partner of a cooperative.
func (r *PostgresPBMRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*pbm.PBM, error) {
	query := pbmSelect + ` WHERE p.tenant_id = $1 ORDER BY p.created_at DESC`

	var pbms []pbm.PBM
	err := r.db.SelectContext(ctx, &pbms, query, tenantID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to find pbms by tenant", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	return toPointers(pbms), nil
}

// FindAll lists PBM partners across every cooperative.
func (r *PostgresPBMRepository) FindAll(ctx context.Context) ([]*pbm.PBM, error) {
	query := pbmSelect + ` ORDER BY p.created_at DESC`

	var pbms []pbm.PBM
	err := r.db.SelectContext(ctx, &pbms, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list pbms", errx.TypeInternal)
	}

	return toPointers(pbms), nil
}

// Save creates or updates a PBM partner.
func (r *PostgresPBMRepository) Save(ctx context.Context, p pbm.PBM) error {
	exists, err := r.pbmExists(ctx, p.ID)
	if err != nil {
		return errx.Wrap(err, "failed to check pbm existence", errx.TypeInternal)
	}

	if exists {
		return r.update(ctx, p)
	}
	return r.create(ctx, p)
}

func (r *PostgresPBMRepository) create(ctx context.Context, p pbm.PBM) error {
	query := `
		INSERT INTO pbms (
			id, tenant_id, name, company_code, contact_person, phone, email,
			address, is_active, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :name, :company_code, :contact_person, :phone, :email,
			:address, :is_active, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return pbm.ErrPBMAlreadyExists().
					WithDetail("company_code", p.CompanyCode).
					WithDetail("tenant_id", p.TenantID.String())
			}
		}
		return errx.Wrap(err, "failed to create pbm", errx.TypeInternal).
			WithDetail("pbm_id", p.ID.String())
	}

	return nil
}

func (r *PostgresPBMRepository) update(ctx context.Context, p pbm.PBM) error {
	query := `
		UPDATE pbms SET
			name = :name,
			company_code = :company_code,
			contact_person = :contact_person,
			phone = :phone,
			email = :email,
			address = :address,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return errx.Wrap(err, "failed to update pbm", errx.TypeInternal).
			WithDetail("pbm_id", p.ID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return pbm.ErrPBMNotFound().WithDetail("pbm_id", p.ID.String())
	}

	return nil
}

// Delete removes a PBM partner.
func (r *PostgresPBMRepository) Delete(ctx context.Context, id kernel.PBMID) error {
	query := `DELETE FROM pbms WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete pbm", errx.TypeInternal).
			WithDetail("pbm_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return pbm.ErrPBMNotFound().WithDetail("pbm_id", id.String())
	}

	return nil
}

// ExistsByCompanyCode reports whether a company code is taken within a
// cooperative.
func (r *PostgresPBMRepository) ExistsByCompanyCode(ctx context.Context, tenantID kernel.TenantID, companyCode string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM pbms WHERE tenant_id = $1 AND company_code = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, tenantID.String(), companyCode)
	if err != nil {
		return false, errx.Wrap(err, "failed to check company code existence", errx.TypeInternal).
			WithDetail("company_code", companyCode)
	}

	return exists, nil
}

func (r *PostgresPBMRepository) pbmExists(ctx context.Context, id kernel.PBMID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM pbms WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id.String())
	return exists, err
}

func toPointers(pbms []pbm.PBM) []*pbm.PBM {
	result := make([]*pbm.PBM, len(pbms))
	for i := range pbms {
		result[i] = &pbms[i]
	}
	return result
}
