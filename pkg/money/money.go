package money

import (
	"github.com/shopspring/decimal"
)

// Tolerance is the largest difference treated as equal when comparing amounts.
var Tolerance = decimal.New(1, -2)

// Scale is the number of fractional digits kept for stored amounts.
const Scale = 4

// Approximately reports whether a and b differ by at most Tolerance.
func Approximately(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds all amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarginPercent returns (price-cost)/cost*100 rounded to two places, or zero when cost is zero.
func MarginPercent(price, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return price.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(2)
}
