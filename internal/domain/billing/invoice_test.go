package billing

import (
	"testing"

	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() partner.ClientSnapshot {
	return partner.ClientSnapshot{
		ID:        "cli-2",
		Name:      "Gauteng Logistics",
		Email:     "accounts@gautenglogistics.com",
		KycStatus: partner.KycStatusPending,
	}
}

func testItems(t *testing.T) []LineItem {
	t.Helper()
	item, err := NewLineItem("Logistics Consulting", dec("10"), dec("850"))
	require.NoError(t, err)
	return []LineItem{item}
}

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoiceDraft(InvoiceDraft{
		Client:    testClient(),
		IssueDate: valueobject.MustParseDate("2024-07-20"),
		DueDate:   valueobject.MustParseDate("2024-08-19"),
		Items:     testItems(t),
		Notes:     "Consulting hours for Q3.",
	})
	require.NoError(t, err)
	return inv
}

func TestNewInvoiceDraft(t *testing.T) {
	t.Run("starts as an unsaved draft in ZAR", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.False(t, inv.IsSaved())
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Equal(t, valueobject.ZAR, inv.Currency)
		assert.True(t, inv.AmountPaid.IsZero())
	})

	t.Run("validation errors block creation", func(t *testing.T) {
		tests := []struct {
			name  string
			draft InvoiceDraft
			code  string
		}{
			{"missing client", InvoiceDraft{Items: testItems(t)}, "INVALID_CLIENT"},
			{"no items", InvoiceDraft{Client: testClient()}, "INVALID_ITEMS"},
			{"bad currency", InvoiceDraft{Client: testClient(), Items: testItems(t), Currency: "JPY"}, "INVALID_CURRENCY"},
			{"due before issue", InvoiceDraft{
				Client:    testClient(),
				Items:     testItems(t),
				IssueDate: valueobject.MustParseDate("2024-08-02"),
				DueDate:   valueobject.MustParseDate("2024-08-01"),
			}, "INVALID_DUE_DATE"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewInvoiceDraft(tt.draft)
				assertCode(t, err, tt.code)
			})
		}
	})
}

func TestInvoice_AssignNumberOnce(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AssignNumber("INV-0005"))
	assert.Equal(t, "INV-0005", inv.ID)
	assert.Equal(t, "INV-0005", inv.InvoiceNumber)
	assert.True(t, inv.IsSaved())

	err := inv.AssignNumber("INV-0006")
	assertCode(t, err, "INVALID_STATE")
	assert.Equal(t, "INV-0005", inv.InvoiceNumber)
}

func TestInvoice_ReviseKeepsNumber(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AssignNumber("INV-0002"))
	inv.ApplyTotals(dec("15"))

	item, err := NewLineItem("Extra hours", dec("2"), dec("850"))
	require.NoError(t, err)
	require.NoError(t, inv.Revise(InvoiceDraft{
		Client: testClient(),
		Items:  append(inv.Items, item),
	}))
	inv.ApplyTotals(dec("15"))

	assert.Equal(t, "INV-0002", inv.InvoiceNumber)
	assert.Equal(t, "10200", inv.Subtotal.String())
	assert.Equal(t, "11730", inv.Total.String())
}

func TestInvoice_ApplyTotals(t *testing.T) {
	inv := newTestInvoice(t)
	inv.ApplyTotals(dec("15"))

	assert.Equal(t, "8500", inv.Subtotal.String())
	assert.Equal(t, "1275", inv.TaxAmount.String())
	assert.Equal(t, "9775", inv.Total.String())
	assert.True(t, inv.Total.Equal(inv.Subtotal.Add(inv.TaxAmount)))
}

func TestInvoice_MarkAsPaid(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AssignNumber("INV-0002"))
	inv.ApplyTotals(dec("15"))
	require.NoError(t, inv.Issue())
	inv.ClearDomainEvents()

	require.NoError(t, inv.MarkAsPaid("payfast"))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.AmountPaid.Equal(inv.Total))
	assert.Equal(t, "payfast", inv.PaymentMethod)
	assert.True(t, inv.Balance().IsZero())
	require.Len(t, inv.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeInvoicePaid, inv.GetDomainEvents()[0].EventType())

	assertCode(t, inv.MarkAsPaid("yoco"), "INVALID_STATE")
	assertCode(t, inv.Revise(InvoiceDraft{Client: testClient(), Items: inv.Items}), "INVALID_STATE")
}

func TestInvoice_RecordPayment(t *testing.T) {
	inv := newTestInvoice(t)
	inv.ApplyTotals(dec("15"))

	assertCode(t, inv.RecordPayment(dec("100"), "EFT"), "INVALID_STATE")

	require.NoError(t, inv.Issue())
	require.NoError(t, inv.RecordPayment(dec("4775"), "EFT"))
	assert.Equal(t, InvoiceStatusPartial, inv.Status)
	assert.Equal(t, "5000", inv.Balance().String())

	assertCode(t, inv.RecordPayment(dec("5000.01"), "EFT"), "INVALID_AMOUNT")
	assertCode(t, inv.RecordPayment(dec("0"), "EFT"), "INVALID_AMOUNT")

	require.NoError(t, inv.RecordPayment(dec("5000"), "EFT"))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
}

func TestInvoice_CheckAmountPaid(t *testing.T) {
	inv := newTestInvoice(t)
	inv.ApplyTotals(dec("15"))
	require.NoError(t, inv.Issue())
	require.NoError(t, inv.RecordPayment(dec("4775"), "EFT"))
	require.NoError(t, inv.CheckAmountPaid())

	small, err := NewLineItem("Small job", dec("1"), dec("100"))
	require.NoError(t, err)
	require.NoError(t, inv.Revise(InvoiceDraft{Client: testClient(), Items: []LineItem{small}}))
	inv.ApplyTotals(dec("15"))
	assertCode(t, inv.CheckAmountPaid(), "INVALID_AMOUNT")
}

func TestInvoice_EffectiveStatus(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.Issue())

	before := valueobject.MustParseDate("2024-08-19")
	after := valueobject.MustParseDate("2024-08-20")

	assert.Equal(t, InvoiceStatusPending, inv.EffectiveStatus(before), "due today is not overdue")
	assert.Equal(t, InvoiceStatusOverdue, inv.EffectiveStatus(after))
	assert.True(t, inv.IsOverdue(after))
	assert.Equal(t, InvoiceStatusPending, inv.Status, "the stored status is untouched")

	require.NoError(t, inv.MarkOverdue())
	assert.True(t, inv.IsOverdue(before))
}

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, InvoiceStatusDraft.CanTransitionTo(InvoiceStatusPending))
	assert.True(t, InvoiceStatusPending.CanTransitionTo(InvoiceStatusOverdue))
	assert.True(t, InvoiceStatusOverdue.CanTransitionTo(InvoiceStatusPaid))
	assert.False(t, InvoiceStatusPaid.CanTransitionTo(InvoiceStatusPending))
	assert.False(t, InvoiceStatusDraft.CanTransitionTo(InvoiceStatusOverdue))
	assert.False(t, InvoiceStatus("Lost").IsValid())
}

func TestInvoice_CloneIsIndependent(t *testing.T) {
	inv := newTestInvoice(t)
	cp := inv.Clone()
	cp.Items[0].Description = "changed"
	cp.Client.Name = "changed"
	assert.Equal(t, "Logistics Consulting", inv.Items[0].Description)
	assert.Equal(t, "Gauteng Logistics", inv.Client.Name)
}

func TestInvoice_ChangeStatus(t *testing.T) {
	inv := newTestInvoice(t)

	require.NoError(t, inv.ChangeStatus(InvoiceStatusDraft))
	assert.Equal(t, InvoiceStatusDraft, inv.Status)

	assertCode(t, inv.ChangeStatus(InvoiceStatusOverdue), "INVALID_STATE")
	assertCode(t, inv.ChangeStatus(InvoiceStatus("Lost")), "INVALID_STATUS")

	require.NoError(t, inv.ChangeStatus(InvoiceStatusPending))
	require.NoError(t, inv.ChangeStatus(InvoiceStatusPaid))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.AmountPaid.Equal(inv.Total))
}
