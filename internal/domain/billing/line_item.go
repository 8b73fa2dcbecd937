package billing

import (
	"slices"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItem is one billable row of an invoice or quote.
// Total equals Quantity * Rate after every quantity or rate change.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Total       decimal.Decimal
	Cost        *decimal.Decimal // unit cost, only used for profitability
	ProductID   string
}

// NewLineItem creates a line item and derives its total
func NewLineItem(description string, quantity, rate decimal.Decimal) (LineItem, error) {
	if quantity.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if rate.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	return LineItem{
		Description: description,
		Quantity:    quantity,
		Rate:        rate,
		Total:       quantity.Mul(rate),
	}, nil
}

// SetQuantity changes the quantity and recomputes the total
func (li *LineItem) SetQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	li.Quantity = quantity
	li.Total = li.Quantity.Mul(li.Rate)
	return nil
}

// SetRate changes the rate and recomputes the total
func (li *LineItem) SetRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	li.Rate = rate
	li.Total = li.Quantity.Mul(li.Rate)
	return nil
}

// SetDescription changes the description; the total is left alone
func (li *LineItem) SetDescription(description string) {
	li.Description = description
}

// SetCost records the unit cost; the total is left alone
func (li *LineItem) SetCost(cost decimal.Decimal) {
	li.Cost = &cost
}

// WithProduct links the line to an inventory product
func (li LineItem) WithProduct(productID string) LineItem {
	li.ProductID = productID
	return li
}

// UnitCost returns the recorded cost, or zero when none was recorded
func (li LineItem) UnitCost() decimal.Decimal {
	if li.Cost == nil {
		return decimal.Zero
	}
	return *li.Cost
}

// LineCost returns unit cost times quantity
func (li LineItem) LineCost() decimal.Decimal {
	return li.UnitCost().Mul(li.Quantity)
}

// HasProduct reports whether the line refers to an inventory product
func (li LineItem) HasProduct() bool {
	return li.ProductID != ""
}

func (li LineItem) validate() error {
	if li.Quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if li.Rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	return nil
}

// CloneItems deep-copies a slice of line items
func CloneItems(items []LineItem) []LineItem {
	out := slices.Clone(items)
	for i := range out {
		if out[i].Cost != nil {
			c := *out[i].Cost
			out[i].Cost = &c
		}
	}
	return out
}
