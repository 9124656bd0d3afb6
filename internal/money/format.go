package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a caller passes an unknown currency code
const DefaultCurrency = gomoney.USD

// currency returns the go-money currency for code, falling back to USD
func currency(code string) *gomoney.Currency {
	if cur := gomoney.GetCurrency(strings.ToUpper(code)); cur != nil {
		return cur
	}
	return gomoney.GetCurrency(DefaultCurrency)
}

// FormatCurrency renders an amount like "$1,234.57"
func FormatCurrency(d decimal.Decimal, code string) string {
	cur := currency(code)
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, cur.Code).Display()
}

// FormatSignedCurrency prefixes non-negative amounts with "+"
func FormatSignedCurrency(d decimal.Decimal, code string) string {
	if d.IsNegative() {
		return FormatCurrency(d, code)
	}
	return "+" + FormatCurrency(d, code)
}

// FormatPercent renders "8.00%"
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(PercentPlaces) + "%"
}

// FormatSignedPercent renders "+8.00%" or "-3.10%"
func FormatSignedPercent(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatPercent(d)
	}
	return "+" + FormatPercent(d)
}

// FormatMultiplier renders "2.35x"
func FormatMultiplier(d decimal.Decimal) string {
	return d.StringFixed(2) + "x"
}

var (
	thousand = decimal.NewFromInt(1000)
	million  = decimal.NewFromInt(1000000)
)

// FormatCompact renders chart axis labels: "$1.2M", "$12K", "$950"
func FormatCompact(d decimal.Decimal, code string) string {
	symbol := currency(code).Grapheme

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	switch {
	case d.GreaterThanOrEqual(million):
		return fmt.Sprintf("%s%s%sM", sign, symbol, d.Div(million).StringFixed(1))
	case d.GreaterThanOrEqual(thousand):
		return fmt.Sprintf("%s%s%sK", sign, symbol, d.Div(thousand).StringFixed(0))
	default:
		return fmt.Sprintf("%s%s%s", sign, symbol, d.StringFixed(0))
	}
}
