package billinginfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/billing"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// PostgresInvoiceRepository is the PostgreSQL implementation of
// InvoiceRepository.
type PostgresInvoiceRepository struct {
	db *sqlx.DB
}

// NewPostgresInvoiceRepository creates a new invoice repository instance.
func NewPostgresInvoiceRepository(db *sqlx.DB) billing.InvoiceRepository {
	return &PostgresInvoiceRepository{
		db: db,
	}
}

const invoiceSelect = `
	SELECT
		i.id, i.tenant_id, i.invoice_number, i.pbm_id, i.job_code, i.job_type,
		i.amount, i.status, i.issued_at, i.due_date, i.paid_at, i.created_at,
		i.updated_at,
		p.name AS pbm_name,
		t.name AS tenant_name,
		t.province AS province
	FROM invoices i
	JOIN pbms p ON p.id = i.pbm_id
	JOIN tenants t ON t.id = i.tenant_id`

// FindByID looks up an invoice by ID.
func (r *PostgresInvoiceRepository) FindByID(ctx context.Context, id kernel.InvoiceID) (*billing.Invoice, error) {
	query := invoiceSelect + ` WHERE i.id = $1`

	var inv billing.Invoice
	err := r.db.GetContext(ctx, &inv, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, billing.ErrInvoiceNotFound().WithDetail("invoice_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find invoice by id", errx.TypeInternal).
			WithDetail("invoice_id", id.String())
	}

	return &inv, nil
}

// FindByTenant lists every invoice of a cooperative.
func (r *PostgresInvoiceRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*billing.Invoice, error) {
	query := invoiceSelect + ` WHERE i.tenant_id = $1 ORDER BY i.created_at DESC`

	var invoices []billing.Invoice
	err := r.db.SelectContext(ctx, &invoices, query, tenantID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to find invoices by tenant", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	return toPointers(invoices), nil
}

// FindAll lists invoices across every cooperative.
func (r *PostgresInvoiceRepository) FindAll(ctx context.Context) ([]*billing.Invoice, error) {
	query := invoiceSelect + ` ORDER BY i.created_at DESC`

	var invoices []billing.Invoice
	err := r.db.SelectContext(ctx, &invoices, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list invoices", errx.TypeInternal)
	}

	return toPointers(invoices), nil
}

// Save creates or updates an invoice.
func (r *PostgresInvoiceRepository) Save(ctx context.Context, inv billing.Invoice) error {
	exists, err := r.invoiceExists(ctx, inv.ID)
	if err != nil {
		return errx.Wrap(err, "failed to check invoice existence", errx.TypeInternal)
	}

	if exists {
		return r.update(ctx, inv)
	}
	return r.create(ctx, inv)
}

func (r *PostgresInvoiceRepository) create(ctx context.Context, inv billing.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, tenant_id, invoice_number, pbm_id, job_code, job_type, amount,
			status, issued_at, due_date, paid_at, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :invoice_number, :pbm_id, :job_code, :job_type, :amount,
			:status, :issued_at, :due_date, :paid_at, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, inv)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return billing.ErrInvoiceAlreadyExists().
					WithDetail("invoice_number", inv.InvoiceNumber)
			}
		}
		return errx.Wrap(err, "failed to create invoice", errx.TypeInternal).
			WithDetail("invoice_id", inv.ID.String())
	}

	return nil
}

func (r *PostgresInvoiceRepository) update(ctx context.Context, inv billing.Invoice) error {
	query := `
		UPDATE invoices SET
			job_type = :job_type,
			amount = :amount,
			status = :status,
			issued_at = :issued_at,
			due_date = :due_date,
			paid_at = :paid_at,
			updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, inv)
	if err != nil {
		return errx.Wrap(err, "failed to update invoice", errx.TypeInternal).
			WithDetail("invoice_id", inv.ID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return billing.ErrInvoiceNotFound().WithDetail("invoice_id", inv.ID.String())
	}

	return nil
}

// Delete removes an invoice.
func (r *PostgresInvoiceRepository) Delete(ctx context.Context, id kernel.InvoiceID) error {
	query := `DELETE FROM invoices WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete invoice", errx.TypeInternal).
			WithDetail("invoice_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return billing.ErrInvoiceNotFound().WithDetail("invoice_id", id.String())
	}

	return nil
}

// NextInvoiceSequence returns the next invoice number ordinal for a
// cooperative's billing year.
func (r *PostgresInvoiceRepository) NextInvoiceSequence(ctx context.Context, tenantID kernel.TenantID, year int) (int, error) {
	query := `
		SELECT COUNT(*) + 1 FROM invoices
		WHERE tenant_id = $1 AND EXTRACT(YEAR FROM created_at) = $2`

	var seq int
	err := r.db.GetContext(ctx, &seq, query, tenantID.String(), year)
	if err != nil {
		return 0, errx.Wrap(err, "failed to get next invoice sequence", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	return seq, nil
}

func (r *PostgresInvoiceRepository) invoiceExists(ctx context.Context, id kernel.InvoiceID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM invoices WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id.String())
	return exists, err
}

func toPointers(invoices []billing.Invoice) []*billing.Invoice {
	result := make([]*billing.Invoice, len(invoices))
	for i := range invoices {
		result[i] = &invoices[i]
	}
	return result
}
