package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals are the derived monetary figures of a document
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals sums the stored item totals and applies the tax rate (a
// percentage). Item totals are taken as-is; keeping them equal to
// quantity*rate is the job of the line item setters.
func ComputeTotals(items []LineItem, taxRatePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}
	tax := subtotal.Mul(taxRatePercent).Div(hundred)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// Rounded returns the totals rounded to cents for presentation
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:  t.Subtotal.Round(2),
		TaxAmount: t.TaxAmount.Round(2),
		Total:     t.Total.Round(2),
	}
}
