package billing

import (
	"net/http"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// ============================================================================
// Invoice Entity
// ============================================================================

// InvoiceStatus tracks an invoice through its billing lifecycle.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "DRAFT"
	StatusIssued    InvoiceStatus = "ISSUED"
	StatusSent      InvoiceStatus = "SENT"
	StatusPaid      InvoiceStatus = "PAID"
	StatusOverdue   InvoiceStatus = "OVERDUE"
	StatusCancelled InvoiceStatus = "CANCELLED"
)

// transitions is the invoice lifecycle. PAID and CANCELLED are terminal.
var transitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft:   {StatusIssued, StatusCancelled},
	StatusIssued:  {StatusSent, StatusPaid, StatusOverdue, StatusCancelled},
	StatusSent:    {StatusPaid, StatusOverdue, StatusCancelled},
	StatusOverdue: {StatusPaid},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to InvoiceStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(s InvoiceStatus) bool {
	return len(transitions[s]) == 0
}

// Invoice bills a PBM partner for completed stevedoring work. Amounts are
// whole rupiah, so int64 carries them exactly.
type Invoice struct {
	ID            kernel.InvoiceID `db:"id" json:"id"`
	TenantID      kernel.TenantID  `db:"tenant_id" json:"tenant_id"`
	InvoiceNumber string           `db:"invoice_number" json:"invoice_number"`
	PBMID         kernel.PBMID     `db:"pbm_id" json:"pbm_id"`
	PBMName       string           `db:"pbm_name" json:"pbm_name"`
	JobCode       string           `db:"job_code" json:"job_code"`
	JobType       string           `db:"job_type" json:"job_type"`
	Amount        int64            `db:"amount" json:"amount"`
	Status        InvoiceStatus    `db:"status" json:"status"`
	IssuedAt      *time.Time       `db:"issued_at" json:"issued_at,omitempty"`
	DueDate       *time.Time       `db:"due_date" json:"due_date,omitempty"`
	PaidAt        *time.Time       `db:"paid_at" json:"paid_at,omitempty"`
	TenantName    string           `db:"tenant_name" json:"tenant_name"`
	Province      string           `db:"province" json:"province"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

func (i *Invoice) transition(to InvoiceStatus) error {
	if !CanTransition(i.Status, to) {
		return ErrInvalidInvoiceTransition().
			WithDetail("from", string(i.Status)).
			WithDetail("to", string(to))
	}
	i.Status = to
	i.UpdatedAt = time.Now()
	return nil
}

// Issue moves a draft onto the books and starts the payment term.
func (i *Invoice) Issue(dueDays int) error {
	if err := i.transition(StatusIssued); err != nil {
		return err
	}
	now := time.Now()
	due := now.AddDate(0, 0, dueDays)
	i.IssuedAt = &now
	i.DueDate = &due
	return nil
}

// Send records that the invoice has been delivered to the PBM.
func (i *Invoice) Send() error {
	return i.transition(StatusSent)
}

// MarkPaid settles the invoice.
func (i *Invoice) MarkPaid() error {
	if err := i.transition(StatusPaid); err != nil {
		return err
	}
	now := time.Now()
	i.PaidAt = &now
	return nil
}

// MarkOverdue flags an unpaid invoice past its due date.
func (i *Invoice) MarkOverdue(now time.Time) error {
	if i.DueDate == nil || !now.After(*i.DueDate) {
		return ErrInvoiceNotDue()
	}
	return i.transition(StatusOverdue)
}

// Cancel voids an unpaid invoice.
func (i *Invoice) Cancel() error {
	return i.transition(StatusCancelled)
}

// IsPending reports whether the invoice counts toward the outstanding
// receivables card (issued or sent, not yet paid or overdue).
func (i *Invoice) IsPending() bool {
	return i.Status == StatusIssued || i.Status == StatusSent
}

// ============================================================================
// Query Descriptor
// ============================================================================

// QueryDescriptor wires invoices into the list query engine. This is the one
// descriptor with an Amount accessor, which enables the monetary sort keys
// and the per-status sums the billing cards are built from.
func QueryDescriptor() query.Descriptor[*Invoice] {
	return query.Descriptor[*Invoice]{
		SearchText: func(i *Invoice) []string {
			return []string{i.InvoiceNumber, i.PBMName, i.TenantName, i.JobType}
		},
		Status: func(i *Invoice) string {
			return string(i.Status)
		},
		Timestamp: func(i *Invoice) (time.Time, bool) {
			return i.UpdatedAt, !i.UpdatedAt.IsZero()
		},
		Province: func(i *Invoice) string {
			return i.Province
		},
		Amount: func(i *Invoice) int64 {
			return i.Amount
		},
	}
}

// ============================================================================
// Summary
// ============================================================================

// Summary is the receivables breakdown shown on the billing dashboard.
type Summary struct {
	PaidAmount    int64 `json:"paid_amount"`
	OverdueAmount int64 `json:"overdue_amount"`
	PendingAmount int64 `json:"pending_amount"`
}

// Summarize derives the billing cards from engine statistics. Pending sums
// the issued and sent buckets.
func Summarize(stats query.Stats) Summary {
	return Summary{
		PaidAmount:    stats.AmountByStatus[string(StatusPaid)],
		OverdueAmount: stats.AmountByStatus[string(StatusOverdue)],
		PendingAmount: stats.AmountByStatus[string(StatusIssued)] + stats.AmountByStatus[string(StatusSent)],
	}
}

// ============================================================================
// DTOs
// ============================================================================

// CreateInvoiceRequest is the payload for drafting an invoice.
type CreateInvoiceRequest struct {
	PBMID   kernel.PBMID `json:"pbm_id" validate:"required"`
	JobCode string       `json:"job_code" validate:"required"`
	JobType string       `json:"job_type"`
	Amount  int64        `json:"amount" validate:"required,min=1"`
}

// UpdateInvoiceRequest edits a draft before it is issued.
type UpdateInvoiceRequest struct {
	Amount  *int64  `json:"amount,omitempty" validate:"omitempty,min=1"`
	JobType *string `json:"job_type,omitempty"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("INVOICE")

var (
	CodeInvoiceNotFound          = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Invoice not found")
	CodeInvoiceAlreadyExists     = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Invoice number already exists")
	CodeInvalidInvoiceTransition = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Invoice status transition not allowed")
	CodeInvoiceNotDue            = ErrRegistry.Register("NOT_DUE", errx.TypeBusiness, http.StatusConflict, "Invoice is not past its due date")
	CodeDraftOnly                = ErrRegistry.Register("DRAFT_ONLY", errx.TypeBusiness, http.StatusConflict, "Only draft invoices can be edited")
)

func ErrInvoiceNotFound() *errx.Error {
	return ErrRegistry.New(CodeInvoiceNotFound)
}

func ErrInvoiceAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeInvoiceAlreadyExists)
}

func ErrInvalidInvoiceTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidInvoiceTransition)
}

func ErrInvoiceNotDue() *errx.Error {
	return ErrRegistry.New(CodeInvoiceNotDue)
}

func ErrDraftOnly() *errx.Error {
	return ErrRegistry.New(CodeDraftOnly)
}
