package billing

import (
	"context"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// InvoiceRepository defines persistence for invoices.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id kernel.InvoiceID) (*Invoice, error)
	FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*Invoice, error)
	FindAll(ctx context.Context) ([]*Invoice, error)
	Save(ctx context.Context, inv Invoice) error
	Delete(ctx context.Context, id kernel.InvoiceID) error
	NextInvoiceSequence(ctx context.Context, tenantID kernel.TenantID, year int) (int, error)
}
