package memberinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// PostgresMemberRepository is the PostgreSQL implementation of MemberRepository.
type PostgresMemberRepository struct {
	db *sqlx.DB
}

// NewPostgresMemberRepository creates a new member repository instance.
func NewPostgresMemberRepository(db *sqlx.DB) member.MemberRepository {
	return &PostgresMemberRepository{
		db: db,
	}
}

// Rows always join the owning tenant so the region filter sees a province
// without a second query.
const memberSelect = `
	SELECT
		m.id, m.tenant_id, m.member_number, m.full_name, m.nik, m.phone,
		m.position, m.is_active, m.join_date, m.created_at, m.updated_at,
		t.province AS province
	FROM members m
	JOIN tenants t ON t.id = m.tenant_id`

// FindByID looks up a member by ID.
func (r *PostgresMemberRepository) FindByID(ctx context.Context, id kernel.MemberID) (*member.Member, error) {
	query := memberSelect + ` WHERE m.id = $1`

	var m member.Member
	err := r.db.GetContext(ctx, &m, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, member.ErrMemberNotFound().WithDetail("member_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find member by id", errx.TypeInternal).
			WithDetail("member_id", id.String())
	}

	return &m, nil
}

// FindByTenant lists every member of a cooperative.
func (r *PostgresMemberRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*member.Member, error) {
	query := memberSelect + ` WHERE m.tenant_id = $1 ORDER BY m.join_date DESC`

	var members []member.Member
	err := r.db.SelectContext(ctx, &members, query, tenantID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to find members by tenant", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	return toPointers(members), nil
}

// FindAll lists members across every cooperative.
func (r *PostgresMemberRepository) FindAll(ctx context.Context) ([]*member.Member, error) {
	query := memberSelect + ` ORDER BY m.join_date DESC`

	var members []member.Member
	err := r.db.SelectContext(ctx, &members, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list members", errx.TypeInternal)
	}

	return toPointers(members), nil
}

// Save creates or updates a member.
func (r *PostgresMemberRepository) Save(ctx context.Context, m member.Member) error {
	exists, err := r.memberExists(ctx, m.ID)
	if err != nil {
		return errx.Wrap(err, "failed to check member existence", errx.TypeInternal)
	}

	if exists {
		return r.update(ctx, m)
	}
	return r.create(ctx, m)
}

func (r *PostgresMemberRepository) create(ctx context.Context, m member.Member) error {
	query := `
		INSERT INTO members (
			id, tenant_id, member_number, full_name, nik, phone, position,
			is_active, join_date, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :member_number, :full_name, :nik, :phone, :position,
			:is_active, :join_date, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return member.ErrMemberAlreadyExists().
					WithDetail("member_number", m.MemberNumber).
					WithDetail("tenant_id", m.TenantID.String())
			}
		}
		return errx.Wrap(err, "failed to create member", errx.TypeInternal).
			WithDetail("member_id", m.ID.String())
	}

	return nil
}

func (r *PostgresMemberRepository) update(ctx context.Context, m member.Member) error {
	query := `
		UPDATE members SET
			member_number = :member_number,
			full_name = :full_name,
			nik = :nik,
			phone = :phone,
			position = :position,
			is_active = :is_active,
			join_date = :join_date,
			updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return errx.Wrap(err, "failed to update member", errx.TypeInternal).
			WithDetail("member_id", m.ID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return member.ErrMemberNotFound().WithDetail("member_id", m.ID.String())
	}

	return nil
}

// Delete removes a member.
func (r *PostgresMemberRepository) Delete(ctx context.Context, id kernel.MemberID) error {
	query := `DELETE FROM members WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete member", errx.TypeInternal).
			WithDetail("member_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return member.ErrMemberNotFound().WithDetail("member_id", id.String())
	}

	return nil
}

// ExistsByMemberNumber reports whether a member number is taken within a
// cooperative.
func (r *PostgresMemberRepository) ExistsByMemberNumber(ctx context.Context, tenantID kernel.TenantID, memberNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE tenant_id = $1 AND member_number = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, tenantID.String(), memberNumber)
	if err != nil {
		return false, errx.Wrap(err, "failed to check member number existence", errx.TypeInternal).
			WithDetail("member_number", memberNumber)
	}

	return exists, nil
}

func (r *PostgresMemberRepository) memberExists(ctx context.Context, id kernel.MemberID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id.String())
	return exists, err
}

func toPointers(members []member.Member) []*member.Member {
	result := make([]*member.Member, len(members))
	for i := range members {
		result[i] = &members[i]
	}
	return result
}
