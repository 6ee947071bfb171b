// Package shortform renders dollar amounts in a compact human scale
// ("$2.98T", "$32.80M").
package shortform

import (
	"math"

	"github.com/shopspring/decimal"
)

// NotAvailable is rendered for missing or non-finite values.
const NotAvailable = "N/A"

var (
	trillion = decimal.New(1, 12)
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
)

// Format renders v with a T/B/M suffix and two decimals. The sign is kept
// ahead of the dollar sign; callers should reject negative market caps
// before formatting rather than rely on this.
func Format(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}

	d := decimal.NewFromFloat(*v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	var body string
	switch {
	case d.GreaterThanOrEqual(trillion):
		body = d.Div(trillion).StringFixed(2) + "T"
	case d.GreaterThanOrEqual(billion):
		body = d.Div(billion).StringFixed(2) + "B"
	case d.GreaterThanOrEqual(million):
		body = d.Div(million).StringFixed(2) + "M"
	default:
		body = d.StringFixed(2)
	}
	return sign + "$" + body
}

// Dollars renders v as a plain two-decimal dollar amount ("$191.03").
func Dollars(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(*v)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
