// Package money holds the decimal helpers shared by the projection and portfolio calculators,
// and the currency formatting used by the CLI and charts.
package money

import (
	"github.com/shopspring/decimal"
)

// CentPlaces is the precision every currency amount is rounded to
const CentPlaces = 2

// PercentPlaces is the precision of derived percentages
const PercentPlaces = 2

var hundred = decimal.NewFromInt(100)

// Round rounds an amount to cents (half away from zero)
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// SafeDiv divides a by b rounded to places, returning zero when b is zero
func SafeDiv(a, b decimal.Decimal, places int32) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, places)
}

// Percent returns part/whole×100 rounded to PercentPlaces, or zero when whole is zero
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, PercentPlaces)
}

// RateFraction turns a percentage (8 for 8%) into a fraction (0.08)
func RateFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// Sum adds amounts
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
