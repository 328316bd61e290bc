package billingsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/billing"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// BillingService coordinates the invoice lifecycle. Drafting and editing run
// under billing:write; putting an invoice on the books (issue, send) is the
// separate billing:issue privilege.
type BillingService struct {
	invoiceRepo billing.InvoiceRepository
	pbmRepo     pbm.PBMRepository
	tenantRepo  tenant.TenantRepository
	dueDays     int
	engine      *query.Engine[*billing.Invoice]
}

// NewBillingService creates a new billing service instance.
func NewBillingService(
	invoiceRepo billing.InvoiceRepository,
	pbmRepo pbm.PBMRepository,
	tenantRepo tenant.TenantRepository,
	dueDays int,
) *BillingService {
	return &BillingService{
		invoiceRepo: invoiceRepo,
		pbmRepo:     pbmRepo,
		tenantRepo:  tenantRepo,
		dueDays:     dueDays,
		engine:      query.NewEngine(billing.QueryDescriptor()),
	}
}

// ListResult pairs the filtered invoices with the receivables breakdown.
type ListResult struct {
	Result  query.Result[*billing.Invoice]
	Summary billing.Summary
}

// ListInvoices filters, sorts and aggregates the caller's visible invoices.
func (s *BillingService) ListInvoices(ctx context.Context, auth *kernel.AuthContext, c query.Criteria) (ListResult, error) {
	var (
		invoices []*billing.Invoice
		err      error
	)

	if auth.TenantID.IsEmpty() {
		invoices, err = s.invoiceRepo.FindAll(ctx)
	} else {
		invoices, err = s.invoiceRepo.FindByTenant(ctx, auth.TenantID)
		c = c.WithoutRegion()
	}
	if err != nil {
		return ListResult{}, err
	}

	result := s.engine.Run(invoices, c)
	return ListResult{
		Result:  result,
		Summary: billing.Summarize(result.Stats),
	}, nil
}

// GetInvoice fetches one invoice, enforcing tenant boundaries.
func (s *BillingService) GetInvoice(ctx context.Context, auth *kernel.AuthContext, id kernel.InvoiceID) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardTenant(auth, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateInvoice drafts an invoice for the caller's cooperative.
func (s *BillingService) CreateInvoice(ctx context.Context, auth *kernel.AuthContext, req billing.CreateInvoiceRequest) (*billing.Invoice, error) {
	if !auth.HasScope(scopes.ScopeBillingWrite) {
		return nil, iam.ErrForbidden().WithDetail("required_scope", scopes.ScopeBillingWrite)
	}
	if auth.TenantID.IsEmpty() {
		return nil, iam.ErrForbidden().WithDetail("reason", "invoices are drafted within a cooperative")
	}

	p, err := s.pbmRepo.FindByID(ctx, req.PBMID)
	if err != nil {
		return nil, err
	}
	if p.TenantID != auth.TenantID {
		return nil, iam.ErrForbidden().WithDetail("reason", "PBM partner belongs to another cooperative")
	}

	t, err := s.tenantRepo.FindByID(ctx, auth.TenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	seq, err := s.invoiceRepo.NextInvoiceSequence(ctx, auth.TenantID, now.Year())
	if err != nil {
		return nil, err
	}

	inv := billing.Invoice{
		ID:            kernel.NewInvoiceID(),
		TenantID:      auth.TenantID,
		InvoiceNumber: fmt.Sprintf("INV-%s-%d-%03d", t.Code, now.Year(), seq),
		PBMID:         p.ID,
		PBMName:       p.Name,
		JobCode:       req.JobCode,
		JobType:       req.JobType,
		Amount:        req.Amount,
		Status:        billing.StatusDraft,
		TenantName:    t.Name,
		Province:      t.Province,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"invoice_id":     inv.ID.String(),
		"invoice_number": inv.InvoiceNumber,
		"amount":         inv.Amount,
	}).Info("invoice drafted")

	return &inv, nil
}

// UpdateInvoice edits a draft. Issued invoices are immutable outside their
// status lifecycle.
func (s *BillingService) UpdateInvoice(ctx context.Context, auth *kernel.AuthContext, id kernel.InvoiceID, req billing.UpdateInvoiceRequest) (*billing.Invoice, error) {
	if !auth.HasScope(scopes.ScopeBillingWrite) {
		return nil, iam.ErrForbidden().WithDetail("required_scope", scopes.ScopeBillingWrite)
	}

	inv, err := s.GetInvoice(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != billing.StatusDraft {
		return nil, billing.ErrDraftOnly().WithDetail("status", string(inv.Status))
	}

	if req.Amount != nil {
		inv.Amount = *req.Amount
	}
	if req.JobType != nil {
		inv.JobType = *req.JobType
	}
	inv.UpdatedAt = time.Now()

	if err := s.invoiceRepo.Save(ctx, *inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// IssueInvoice puts a draft on the books. Requires billing:issue.
func (s *BillingService) IssueInvoice(ctx context.Context, auth *kernel.AuthContext, id kernel.InvoiceID) (*billing.Invoice, error) {
	return s.applyTransition(ctx, auth, id, scopes.ScopeBillingIssue, func(inv *billing.Invoice) error {
		return inv.Issue(s.dueDays)
	}, "invoice issued")
}

// SendInvoice records delivery to the PBM. Requires billing:issue.
func (s *BillingService) SendInvoice(ctx context.Context, auth *kernel.AuthContext, id kernel.InvoiceID) (*billing.Invoice, error) {
	return s.applyTransition(ctx, auth, id, scopes.ScopeBillingIssue, func(inv *billing.Invoice) error {
		return inv.Send()
	}, "invoice sent")
}

// MarkInvoicePaid settles an invoice. Requires billing:write.
func (s *BillingService) MarkInvoicePaid(ctx context.Context, auth *kernel.AuthContext, id kernel.InvoiceID) (*billing.Invoice, error) {
	return s.applyTransition(ctx, auth, id, scopes.ScopeBillingWrite, func(inv *billing.Invoice) error {
		return inv.MarkPaid()
	}, "invoice paid")
}

// MarkInvoiceOverdue flags an unpaid invoice past its due date. Requires
// billing:write.
func (s *BillingService) MarkInvoiceOverdue(ctx context.Context, auth *kernel.AuthContext, id kernel.InvoiceID) (*billing.Invoice, error) {
	return s.applyTransition(ctx, auth, id, scopes.ScopeBillingWrite, func(inv *billing.Invoice) error {
		return inv.MarkOverdue(time.Now())
	}, "invoice marked overdue")
}

// CancelInvoice voids an unpaid invoice. Requires billing:write.
func (s *BillingService) CancelInvoice(ctx context.Context, auth *kernel.AuthContext, id kernel.InvoiceID) (*billing.Invoice, error) {
	return s.applyTransition(ctx, auth, id, scopes.ScopeBillingWrite, func(inv *billing.Invoice) error {
		return inv.Cancel()
	}, "invoice cancelled")
}

func (s *BillingService) applyTransition(ctx context.Context, auth *kernel.AuthContext, id kernel.InvoiceID, requiredScope string, apply func(*billing.Invoice) error, logMsg string) (*billing.Invoice, error) {
	if !auth.HasScope(requiredScope) {
		return nil, iam.ErrForbidden().WithDetail("required_scope", requiredScope)
	}

	inv, err := s.GetInvoice(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if err := apply(inv); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, *inv); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"invoice_id":     inv.ID.String(),
		"invoice_number": inv.InvoiceNumber,
		"status":         string(inv.Status),
	}).Info(logMsg)

	return inv, nil
}

func (s *BillingService) guardTenant(auth *kernel.AuthContext, inv *billing.Invoice) error {
	if auth.TenantID.IsEmpty() {
		return nil
	}
	if inv.TenantID != auth.TenantID {
		return iam.ErrForbidden().WithDetail("reason", "invoice belongs to another cooperative")
	}
	return nil
}
