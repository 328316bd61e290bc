package billing

import (
	"testing"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftInvoice(amount int64) *Invoice {
	now := time.Now()
	return &Invoice{
		ID:            kernel.NewInvoiceID(),
		TenantID:      kernel.NewTenantID(),
		InvoiceNumber: "INV-JKT-2025-001",
		PBMID:         kernel.NewPBMID(),
		PBMName:       "PT Pelabuhan Makmur",
		JobCode:       "PJ-JKT-001",
		JobType:       "Bongkar Curah",
		Amount:        amount,
		Status:        StatusDraft,
		TenantName:    "Koperasi TKBM Tanjung Priok",
		Province:      "DKI Jakarta",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	inv := draftInvoice(25_000_000)

	require.NoError(t, inv.Issue(14))
	assert.Equal(t, StatusIssued, inv.Status)
	require.NotNil(t, inv.IssuedAt)
	require.NotNil(t, inv.DueDate)
	assert.WithinDuration(t, inv.IssuedAt.AddDate(0, 0, 14), *inv.DueDate, time.Second)

	require.NoError(t, inv.Send())
	assert.Equal(t, StatusSent, inv.Status)

	require.NoError(t, inv.MarkPaid())
	assert.Equal(t, StatusPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
}

func TestPaidInvoiceIsTerminal(t *testing.T) {
	inv := draftInvoice(1_000_000)
	require.NoError(t, inv.Issue(14))
	require.NoError(t, inv.MarkPaid())

	assert.Error(t, inv.Send())
	assert.Error(t, inv.Cancel())
	assert.True(t, IsTerminal(StatusPaid))
	assert.True(t, IsTerminal(StatusCancelled))
}

func TestMarkOverdueRequiresPastDueDate(t *testing.T) {
	inv := draftInvoice(1_000_000)

	// Drafts carry no due date at all.
	assert.Error(t, inv.MarkOverdue(time.Now()))

	require.NoError(t, inv.Issue(14))
	assert.Error(t, inv.MarkOverdue(time.Now()), "not yet past due")

	require.NoError(t, inv.MarkOverdue(inv.DueDate.Add(24*time.Hour)))
	assert.Equal(t, StatusOverdue, inv.Status)

	// Overdue invoices can still settle.
	require.NoError(t, inv.MarkPaid())
}

func TestCancelFromDraft(t *testing.T) {
	inv := draftInvoice(1_000_000)
	require.NoError(t, inv.Cancel())
	assert.Equal(t, StatusCancelled, inv.Status)
}

func TestSummarizePendingIsIssuedPlusSent(t *testing.T) {
	engine := query.NewEngine(QueryDescriptor())

	issued := draftInvoice(10_000_000)
	require.NoError(t, issued.Issue(14))
	sent := draftInvoice(5_000_000)
	require.NoError(t, sent.Issue(14))
	require.NoError(t, sent.Send())
	paid := draftInvoice(7_000_000)
	require.NoError(t, paid.Issue(14))
	require.NoError(t, paid.MarkPaid())
	draft := draftInvoice(3_000_000)

	result := engine.Run([]*Invoice{issued, sent, paid, draft}, query.NewCriteria())
	summary := Summarize(result.Stats)

	assert.Equal(t, int64(15_000_000), summary.PendingAmount)
	assert.Equal(t, int64(7_000_000), summary.PaidAmount)
	assert.Equal(t, int64(0), summary.OverdueAmount)
	assert.Equal(t, int64(25_000_000), result.Stats.TotalAmount)
}

func TestAmountSort(t *testing.T) {
	engine := query.NewEngine(QueryDescriptor())

	small := draftInvoice(1_000_000)
	big := draftInvoice(50_000_000)
	mid := draftInvoice(20_000_000)

	c := query.NewCriteria()
	c.SortBy = query.SortAmountHigh
	result := engine.Run([]*Invoice{small, big, mid}, c)

	require.Equal(t, 3, result.Stats.Total)
	assert.Equal(t, int64(50_000_000), result.Items[0].Amount)
	assert.Equal(t, int64(1_000_000), result.Items[2].Amount)
}

func TestPendingFlag(t *testing.T) {
	inv := draftInvoice(1_000_000)
	assert.False(t, inv.IsPending())

	require.NoError(t, inv.Issue(14))
	assert.True(t, inv.IsPending())

	require.NoError(t, inv.MarkPaid())
	assert.False(t, inv.IsPending())
}
