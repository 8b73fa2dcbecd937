package billing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fractionalItem() LineItemInput {
	return LineItemInput{
		Description: "Hosting (pro rata)",
		Quantity:    decimal.NewFromInt(1),
		Rate:        decimal.RequireFromString("33.335"),
	}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestToInvoiceResponse_RoundsMoney(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{fractionalItem()}, Status: "Pending"})
	require.NoError(t, err)

	assertMoney(t, "33.34", resp.Subtotal)
	assertMoney(t, "5.00", resp.TaxAmount)
	assertMoney(t, "38.34", resp.Total)
	assertMoney(t, "38.34", resp.Balance)
	assertMoney(t, "0", resp.AmountPaid)
	require.Len(t, resp.Items, 1)
	assertMoney(t, "33.34", resp.Items[0].Total)
	assertMoney(t, "33.335", resp.Items[0].Rate)

	stored, err := f.state.Invoices.FindByID(ctx, resp.ID)
	require.NoError(t, err)
	assertMoney(t, "38.33525", stored.Total)
}

func TestToInvoiceResponse_PayingRoundedBalanceSettles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.invoices.Save(ctx, SaveInvoiceRequest{ClientID: "cli-1", Items: []LineItemInput{fractionalItem()}, Status: "Pending"})
	require.NoError(t, err)

	balance := resp.Balance
	paid, err := f.invoices.MarkAsPaid(ctx, resp.ID, MarkPaidRequest{PaymentMethod: "eft", Amount: &balance})
	require.NoError(t, err)
	assert.Equal(t, "Paid", paid.Status)
	assertMoney(t, "38.34", paid.AmountPaid)
}

func TestToQuoteResponse_RoundsMoney(t *testing.T) {
	f := newFixture(t)

	resp, err := f.quotes.Save(context.Background(), SaveQuoteRequest{ClientID: "cli-1", Items: []LineItemInput{fractionalItem()}})
	require.NoError(t, err)

	assertMoney(t, "33.34", resp.Subtotal)
	assertMoney(t, "5.00", resp.TaxAmount)
	assertMoney(t, "38.34", resp.Total)
}
