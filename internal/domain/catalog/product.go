package catalog

import "github.com/shopspring/decimal"

// The shop sells a single product, so its identity and price are fixed
// at build time rather than stored per order line.
const (
	StoreName   = "Portable Eye Massager"
	ProductName = "Portable Eye Massager"
	Currency    = "eur"

	// UnitPriceMinor is the unit price in cents; charges are computed in
	// minor units to avoid floating-point rounding.
	UnitPriceMinor int64 = 4990
)

// UnitPrice returns the unit price as a decimal amount (49.90).
func UnitPrice() decimal.Decimal {
	return decimal.New(UnitPriceMinor, -2)
}

// Total returns quantity × unit price as a decimal amount.
func Total(quantity int) decimal.Decimal {
	return UnitPrice().Mul(decimal.NewFromInt(int64(quantity)))
}

// FormatAmount renders a decimal amount the way invoices and customer
// mail display it.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2) + " EUR"
}
