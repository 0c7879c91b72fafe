package money

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Amounts are integers in the smallest currency unit (yen).

// EvaluateDiscount parses a discount expression and returns the signed
// adjustment per unit against the given unit price.
//
// Two forms are accepted:
//   - percentage form with a "%" suffix, where the value is a markup baseline
//     of 100: "130%" means the effective unit price is 130% of unitPrice,
//     so the adjustment is floor(unitPrice * 30 / 100)
//   - fixed form, a plain number optionally followed by a currency marker
//     ("500" or "500円"), normalized to a non-negative magnitude
//
// Malformed expressions, negative percentages and negative unit prices all
// evaluate to 0. The cart is edited interactively, so bad input degrades to
// "no adjustment" instead of failing the operation.
func EvaluateDiscount(expr string, unitPrice int64) int64 {
	if unitPrice < 0 {
		return 0
	}

	s := strings.TrimSpace(expr)
	if s == "" {
		return 0
	}

	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 {
			return 0
		}
		return int64(math.Floor(float64(unitPrice) * (pct - 100) / 100))
	}

	// Fixed form: strip a trailing currency marker such as "円".
	trimmed := strings.TrimRightFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Abs(math.Floor(v)))
}

// ExtractedTax returns the tax portion contained in a tax-inclusive total:
// round(total * rate / (100 + rate)). Totals below zero and rates outside
// (0, 100) yield 0.
func ExtractedTax(total int64, rate float64) int64 {
	if total < 0 || rate <= 0 || rate >= 100 {
		return 0
	}
	return int64(math.Round(float64(total) * rate / (100 + rate)))
}
