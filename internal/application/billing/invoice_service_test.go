package billing

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/export"
	"github.com/outvoice/backend/internal/infrastructure/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPaymentInitiator struct {
	mock.Mock
}

func (m *MockPaymentInitiator) Initiate(ctx context.Context, req payment.PaymentRequest) (*payment.PaymentInstruction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentInstruction), args.Error(1)
}

type MockInvoicePrinter struct {
	mock.Mock
}

func (m *MockInvoicePrinter) Invoice(ctx context.Context, view export.InvoiceView, format export.Format) (*export.File, error) {
	args := m.Called(ctx, view, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.File), args.Error(1)
}

func TestInvoiceService_CreateNumbersAndTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.invoices.Save(ctx, SaveInvoiceRequest{
		ClientID: "cli-1",
		Items:    []LineItemInput{consultingItem(2, 100)},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", resp.InvoiceNumber)
	assert.Equal(t, "INV-0001", resp.ID)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, resp.TaxAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(230)))
	assert.Equal(t, "Draft", resp.Status)
	assert.Equal(t, "Thabo Mokoena", resp.Client.Name)
	assert.Equal(t, "2024-06-15", resp.IssueDate.String())
	assert.Equal(t, "2024-07-15", resp.DueDate.String())
	assert.Equal(t, "ZAR", resp.Currency)

	profile, err := f.state.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.InvoiceCounter)
	assert.Equal(t, []string{billing.EventTypeInvoiceCreated}, f.publisher.types())
}

func TestInvoiceService_NumberStepsPastTakenNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	client, err := f.state.Clients.FindByID(ctx, "cli-1")
	require.NoError(t, err)
	item, err := billing.NewLineItem("Manual", decimal.NewFromInt(1), decimal.NewFromInt(50))
	require.NoError(t, err)
	manual, err := billing.NewInvoiceDraft(billing.InvoiceDraft{Client: client.Snapshot(), Items: []billing.LineItem{item}})
	require.NoError(t, err)
	require.NoError(t, manual.AssignNumber("INV-0001"))
	require.NoError(t, f.state.Invoices.Save(ctx, manual))

	resp, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{consultingItem(1, 10)}})
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", resp.InvoiceNumber)

	profile, err := f.state.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, profile.InvoiceCounter)
}

func TestInvoiceService_EditKeepsNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{consultingItem(1, 100)}})
	require.NoError(t, err)

	edited, err := f.invoices.Save(ctx, SaveInvoiceRequest{
		ID:       created.ID,
		ClientID: "cli-1",
		Items:    []LineItemInput{consultingItem(3, 100)},
		Notes:    "  Thanks for your business  ",
		Status:   "Pending",
	})
	require.NoError(t, err)

	assert.Equal(t, created.InvoiceNumber, edited.InvoiceNumber)
	assert.True(t, edited.Total.Equal(decimal.NewFromInt(345)))
	assert.Equal(t, "Pending", edited.Status)
	assert.Equal(t, "Thanks for your business", edited.Notes)
	assert.Equal(t, 1, f.state.Invoices.Len())

	profile, err := f.state.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.InvoiceCounter)
	assert.Equal(t, []string{billing.EventTypeInvoiceCreated, billing.EventTypeInvoiceUpdated}, f.publisher.types())
}

func TestInvoiceService_ValidationBlocksSave(t *testing.T) {
	tests := []struct {
		name string
		req  SaveInvoiceRequest
		code string
	}{
		{
			name: "missing client",
			req:  SaveInvoiceRequest{Items: []LineItemInput{consultingItem(1, 1)}},
			code: "INVALID_CLIENT",
		},
		{
			name: "unknown client",
			req:  SaveInvoiceRequest{ClientID: "cli-404", Items: []LineItemInput{consultingItem(1, 1)}},
			code: "INVALID_CLIENT",
		},
		{
			name: "no items",
			req:  SaveInvoiceRequest{ClientID: "cli-1"},
			code: "INVALID_ITEMS",
		},
		{
			name: "negative quantity",
			req: SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{{
				Description: "Refund",
				Quantity:    decimal.NewFromInt(-1),
				Rate:        decimal.NewFromInt(10),
			}}},
			code: "INVALID_QUANTITY",
		},
		{
			name: "due before issue",
			req: SaveInvoiceRequest{
				ClientID:  "cli-1",
				IssueDate: valueobject.MustParseDate("2024-06-10"),
				DueDate:   valueobject.MustParseDate("2024-06-01"),
				Items:     []LineItemInput{consultingItem(1, 1)},
			},
			code: "INVALID_DUE_DATE",
		},
		{
			name: "unsupported currency",
			req:  SaveInvoiceRequest{ClientID: "cli-1", Currency: "JPY", Items: []LineItemInput{consultingItem(1, 1)}},
			code: "INVALID_CURRENCY",
		},
		{
			name: "unknown id",
			req:  SaveInvoiceRequest{ID: "INV-9999", ClientID: "cli-1", Items: []LineItemInput{consultingItem(1, 1)}},
			code: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.invoices.Save(context.Background(), tt.req)
			assertCode(t, err, tt.code)

			assert.Equal(t, 0, f.state.Invoices.Len())
			profile, err := f.state.Profile.Get(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, profile.InvoiceCounter)
			assert.Empty(t, f.publisher.types())
		})
	}
}

func TestInvoiceService_ConcurrentCreatesGetDistinctNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 25
	numbers := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.invoices.Save(ctx, SaveInvoiceRequest{
				ClientID: "cli-1",
				Items:    []LineItemInput{consultingItem(int64(i+1), 10)},
			})
			if err == nil {
				numbers[i] = resp.InvoiceNumber
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, number := range numbers {
		require.NotEmpty(t, number)
		assert.False(t, seen[number], "duplicate number %s", number)
		seen[number] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("INV-%04d", i)])
	}
}

func TestInvoiceService_ListUsesEffectiveStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.invoices.Save(ctx, SaveInvoiceRequest{
		ClientID:  "cli-1",
		IssueDate: valueobject.MustParseDate("2024-05-01"),
		DueDate:   valueobject.MustParseDate("2024-05-31"),
		Items:     []LineItemInput{consultingItem(1, 100)},
		Status:    "Pending",
	})
	require.NoError(t, err)
	_, err = f.invoices.Save(ctx, SaveInvoiceRequest{
		ClientID: "cli-1",
		Items:    []LineItemInput{consultingItem(1, 100)},
		Status:   "Pending",
	})
	require.NoError(t, err)

	overdue, err := f.invoices.List(ctx, InvoiceListFilter{Status: "Overdue"})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "INV-0001", overdue[0].InvoiceNumber)

	all, err := f.invoices.List(ctx, InvoiceListFilter{ClientID: "cli-1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := f.invoices.List(ctx, InvoiceListFilter{ClientID: "cli-2"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInvoiceService_MarkAsPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{consultingItem(1, 100)}, Status: "Pending"})
	require.NoError(t, err)

	paid, err := f.invoices.MarkAsPaid(ctx, created.ID, MarkPaidRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Paid", paid.Status)
	assert.Equal(t, "payfast", paid.PaymentMethod)
	assert.True(t, paid.Balance.IsZero())
	assert.Contains(t, f.publisher.types(), billing.EventTypeInvoicePaid)

	_, err = f.invoices.MarkAsPaid(ctx, created.ID, MarkPaidRequest{})
	assertCode(t, err, "INVALID_STATE")

	_, err = f.invoices.Save(ctx, SaveInvoiceRequest{ID: created.ID, ClientID: "cli-1", Items: []LineItemInput{consultingItem(9, 100)}})
	assertCode(t, err, "INVALID_STATE")

	_, err = f.invoices.MarkAsPaid(ctx, "INV-0404", MarkPaidRequest{})
	assertCode(t, err, "NOT_FOUND")
}

func TestInvoiceService_PartPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{consultingItem(1, 100)}, Status: "Pending"})
	require.NoError(t, err)

	part := created.Total.Div(decimal.NewFromInt(2))
	partial, err := f.invoices.MarkAsPaid(ctx, created.ID, MarkPaidRequest{PaymentMethod: "eft", Amount: &part})
	require.NoError(t, err)
	assert.Equal(t, "Partial", partial.Status)
	assert.True(t, partial.Balance.Equal(created.Total.Sub(part)))

	tooMuch := created.Total
	_, err = f.invoices.MarkAsPaid(ctx, created.ID, MarkPaidRequest{Amount: &tooMuch})
	assertCode(t, err, "INVALID_AMOUNT")

	rest := partial.Balance
	paid, err := f.invoices.MarkAsPaid(ctx, created.ID, MarkPaidRequest{PaymentMethod: "eft", Amount: &rest})
	require.NoError(t, err)
	assert.Equal(t, "Paid", paid.Status)
	assert.True(t, paid.Balance.IsZero())
}

func TestInvoiceService_SaveRejectsTotalBelowAmountPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{consultingItem(2, 100)}, Status: "Pending"})
	require.NoError(t, err)

	paid := decimal.NewFromInt(200)
	_, err = f.invoices.MarkAsPaid(ctx, created.ID, MarkPaidRequest{PaymentMethod: "eft", Amount: &paid})
	require.NoError(t, err)

	_, err = f.invoices.Save(ctx, SaveInvoiceRequest{ID: created.ID, ClientID: "cli-1", Items: []LineItemInput{consultingItem(1, 100)}})
	assertCode(t, err, "INVALID_AMOUNT")

	stored, err := f.invoices.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Partial", stored.Status)
	assert.Equal(t, "230", stored.Total.String())
	assert.Equal(t, "30", stored.Balance.String())
}

func TestInvoiceService_ConcurrentPaymentsAllRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{consultingItem(2, 100)}, Status: "Pending"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			amount := decimal.NewFromInt(10)
			_, err := f.invoices.MarkAsPaid(ctx, created.ID, MarkPaidRequest{PaymentMethod: "eft", Amount: &amount})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := f.invoices.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Partial", stored.Status)
	assert.Equal(t, "100", stored.AmountPaid.String())
	assert.Equal(t, "130", stored.Balance.String())
}

func TestInvoiceService_InitiatePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{consultingItem(1, 100)}, Status: "Pending"})
	require.NoError(t, err)

	t.Run("no registry", func(t *testing.T) {
		_, err := f.invoices.InitiatePayment(ctx, created.ID)
		assertCode(t, err, "UNSUPPORTED_GATEWAY")
	})

	t.Run("delegates to the preferred gateway", func(t *testing.T) {
		initiator := new(MockPaymentInitiator)
		instruction := &payment.PaymentInstruction{Gateway: company.GatewayPayFast, Amount: "115.00", Reference: created.ID}
		initiator.On("Initiate", mock.Anything, mock.MatchedBy(func(req payment.PaymentRequest) bool {
			return req.Invoice.InvoiceNumber == created.ID && req.Profile.PreferredGateway == company.GatewayPayFast
		})).Return(instruction, nil).Once()
		f.invoices.SetPaymentInitiator(initiator)

		got, err := f.invoices.InitiatePayment(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "115.00", got.Amount)
		initiator.AssertExpectations(t)
	})

	t.Run("paid invoices cannot be charged again", func(t *testing.T) {
		_, err := f.invoices.MarkAsPaid(ctx, created.ID, MarkPaidRequest{PaymentMethod: "eft"})
		require.NoError(t, err)
		_, err = f.invoices.InitiatePayment(ctx, created.ID)
		assertCode(t, err, "INVALID_STATE")
	})
}

func TestInvoiceService_Print(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{consultingItem(1, 100)}})
	require.NoError(t, err)

	_, err = f.invoices.Print(ctx, created.ID, export.FormatHTML)
	assertCode(t, err, "EXPORT_UNAVAILABLE")

	printer := new(MockInvoicePrinter)
	printer.On("Invoice", mock.Anything, mock.MatchedBy(func(v export.InvoiceView) bool {
		return v.Invoice.InvoiceNumber == created.ID
	}), export.FormatHTML).Return(&export.File{Name: "INV-0001.html", ContentType: "text/html"}, nil)
	f.invoices.SetPrinter(printer)

	file, err := f.invoices.Print(ctx, created.ID, export.FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001.html", file.Name)
}

func TestResolveClient_SnapshotsByValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{consultingItem(1, 100)}})
	require.NoError(t, err)

	client, err := f.state.Clients.FindByID(ctx, "cli-1")
	require.NoError(t, err)
	require.NoError(t, client.Update("Thabo Mokoena Holdings", client.Email, client.Address, client.HourlyRate))
	require.NoError(t, f.state.Clients.Save(ctx, client))

	got, err := f.invoices.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thabo Mokoena", got.Client.Name)
	assert.Equal(t, string(partner.KycStatusPending), got.Client.KycStatus)
}
