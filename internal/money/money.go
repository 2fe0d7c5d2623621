// Package money holds the numeric primitives shared by extraction and
// reconciliation: default substitution for missing or malformed values,
// output rounding, tolerant figure parsing, and tax-inclusive price
// decomposition.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Amount coerces a monetary value to the non-negative range. Missing
// JSON fields decode to zero, so absent and invalid collapse to the
// same default.
func Amount(d decimal.Decimal) decimal.Decimal {
	if d.Sign() < 0 {
		return decimal.Zero
	}
	return d
}

// PositiveOr returns d when it is strictly positive, otherwise def.
// This is the override-if-absent policy for upstream totals: a zero or
// missing figure from extraction is replaced by the calculated one.
func PositiveOr(d, def decimal.Decimal) decimal.Decimal {
	if d.Sign() > 0 {
		return d
	}
	return def
}

// Quantity defaults to 1 when the extracted quantity is missing, zero
// or negative.
func Quantity(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return one
	}
	return d
}

// Rate normalizes a VAT percentage; negative or missing rates become 0.
func Rate(d decimal.Decimal) decimal.Decimal {
	if d.Sign() < 0 {
		return decimal.Zero
	}
	return d
}

// Round2 rounds to 2 decimal places, half up. Applied only at the point
// of output so rounding error never compounds across summations.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RateKey scales a VAT rate to integer basis points for use as a map
// key, so grouping never depends on floating-point equality.
func RateKey(rate decimal.Decimal) int64 {
	return rate.Mul(hundred).Round(0).IntPart()
}

// Decompose splits a tax-inclusive gross price at the given VAT
// percentage into its tax amount and tax-exclusive base:
//
//	tax  = gross × rate / (100 + rate)
//	base = gross − tax
//
// A zero rate yields tax 0 and base == gross; the denominator is never
// zero. Negative inputs are normalized first, so the function is total.
func Decompose(gross, ratePercent decimal.Decimal) (taxAmount, baseAmount decimal.Decimal) {
	g := Amount(gross)
	r := Rate(ratePercent)
	taxAmount = g.Mul(r).Div(r.Add(hundred))
	baseAmount = g.Sub(taxAmount)
	return taxAmount, baseAmount
}

// ParseAmount reads a monetary figure the way it appears on Turkish
// receipts: "71,00", "1.234,56", "1234.56" or a bare integer, with an
// optional trailing currency marker. Both comma and dot are accepted as
// the decimal separator; when both occur the later one wins and the
// other is treated as a thousands separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"TL", "TRY", "₺"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("parse amount: empty input")
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
