package valueobject

// Currency is an ISO 4217 code the business can bill in.
// Amounts themselves are plain decimal.Decimal values rounded to cents.
type Currency string

const (
	ZAR Currency = "ZAR"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// DefaultCurrency applies when a document does not name one
const DefaultCurrency = ZAR

var currencySymbols = map[Currency]string{
	ZAR: "R",
	USD: "$",
	EUR: "€",
	GBP: "£",
}

// IsValid reports whether the currency is one the app bills in
func (c Currency) IsValid() bool {
	_, ok := currencySymbols[c]
	return ok
}

func (c Currency) String() string {
	return string(c)
}

// Symbol is the prefix used on printed documents; unknown codes print as-is
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return string(c)
}
