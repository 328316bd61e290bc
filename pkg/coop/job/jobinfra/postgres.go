package jobinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/job"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// PostgresJobRepository is the PostgreSQL implementation of JobRepository.
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new job repository instance.
func NewPostgresJobRepository(db *sqlx.DB) job.JobRepository {
	return &PostgresJobRepository{
		db: db,
	}
}

const jobSelect = `
	SELECT
		j.id, j.tenant_id, j.job_code, j.pbm_id, j.job_type, j.ship_name,
		j.port_location, j.scheduled_date, j.required_workers, j.contact_person,
		j.team_leader_id, j.status, j.rejection_reason, j.created_at, j.updated_at,
		p.name AS pbm_name,
		t.province AS province
	FROM job_requests j
	JOIN pbms p ON p.id = j.pbm_id
	JOIN tenants t ON t.id = j.tenant_id`

// FindByID looks up a job request by ID.
func (r *PostgresJobRepository) FindByID(ctx context.Context, id kernel.JobID) (*job.JobRequest, error) {
	query := jobSelect + ` WHERE j.id = $1`

	var j job.JobRequest
	err := r.db.GetContext(ctx, &j, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find job by id", errx.TypeInternal).
			WithDetail("job_id", id.String())
	}

	return &j, nil
}

// FindByTenant lists every job request of a cooperative.
func (r *PostgresJobRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*job.JobRequest, error) {
	query := jobSelect + ` WHERE j.tenant_id = $1 ORDER BY j.created_at DESC`

	var jobs []job.JobRequest
	err := r.db.SelectContext(ctx, &jobs, query, tenantID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to find jobs by tenant", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	return toPointers(jobs), nil
}

// FindAll lists job requests across every cooperative.
func (r *PostgresJobRepository) FindAll(ctx context.Context) ([]*job.JobRequest, error) {
	query := jobSelect + ` ORDER BY j.created_at DESC`

	var jobs []job.JobRequest
	err := r.db.SelectContext(ctx, &jobs, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list jobs", errx.TypeInternal)
	}

	return toPointers(jobs), nil
}

// Save creates or updates a job request.
func (r *PostgresJobRepository) Save(ctx context.Context, j job.JobRequest) error {
	exists, err := r.jobExists(ctx, j.ID)
	if err != nil {
		return errx.Wrap(err, "failed to check job existence", errx.TypeInternal)
	}

	if exists {
		return r.update(ctx, j)
	}
	return r.create(ctx, j)
}

func (r *PostgresJobRepository) create(ctx context.Context, j job.JobRequest) error {
	query := `
		INSERT INTO job_requests (
			id, tenant_id, job_code, pbm_id, job_type, ship_name, port_location,
			scheduled_date, required_workers, contact_person, team_leader_id,
			status, rejection_reason, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :job_code, :pbm_id, :job_type, :ship_name, :port_location,
			:scheduled_date, :required_workers, :contact_person, :team_leader_id,
			:status, :rejection_reason, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, j)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return errx.Wrap(err, "duplicate job code", errx.TypeConflict).
					WithDetail("job_code", j.JobCode)
			}
		}
		return errx.Wrap(err, "failed to create job", errx.TypeInternal).
			WithDetail("job_id", j.ID.String())
	}

	return nil
}

func (r *PostgresJobRepository) update(ctx context.Context, j job.JobRequest) error {
	query := `
		UPDATE job_requests SET
			job_type = :job_type,
			ship_name = :ship_name,
			port_location = :port_location,
			scheduled_date = :scheduled_date,
			required_workers = :required_workers,
			contact_person = :contact_person,
			team_leader_id = :team_leader_id,
			status = :status,
			rejection_reason = :rejection_reason,
			updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, j)
	if err != nil {
		return errx.Wrap(err, "failed to update job", errx.TypeInternal).
			WithDetail("job_id", j.ID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", j.ID.String())
	}

	return nil
}

// Delete removes a job request.
func (r *PostgresJobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	query := `DELETE FROM job_requests WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete job", errx.TypeInternal).
			WithDetail("job_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", id.String())
	}

	return nil
}

// NextJobSequence returns the next per-tenant sequence number for job codes.
func (r *PostgresJobRepository) NextJobSequence(ctx context.Context, tenantID kernel.TenantID) (int, error) {
	query := `SELECT COUNT(*) + 1 FROM job_requests WHERE tenant_id = $1`

	var next int
	err := r.db.GetContext(ctx, &next, query, tenantID.String())
	if err != nil {
		return 0, errx.Wrap(err, "failed to compute next job sequence", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	return next, nil
}

func (r *PostgresJobRepository) jobExists(ctx context.Context, id kernel.JobID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM job_requests WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id.String())
	return exists, err
}

func toPointers(jobs []job.JobRequest) []*job.JobRequest {
	result := make([]*job.JobRequest, len(jobs))
	for i := range jobs {
		result[i] = &jobs[i]
	}
	return result
}
