// Package money provides the monetary math primitives shared by every
// ledger component: half-up rounding, normalization of heterogeneous
// numeric inputs to plain float64 values, and tolerance-based equality.
//
// Invariants:
//   - All balances and amounts are plain float64 values rounded to a
//     fixed precision before comparison or display.
//   - Every raw value crossing a package boundary must pass through
//     ToAmount before arithmetic.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the precision used for stored balances and amounts.
const DefaultDecimals = 2

// Epsilon is the tolerance used by ApproximatelyEqual.
const Epsilon = 0.001

// Round rounds value half-up to the given number of decimal places.
// Non-finite input (NaN, ±Inf) is defined to 0.
func Round(value float64, decimals int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(value).Round(decimals).Float64()
	// Round never returns -0; it confuses equality and display.
	if f == 0 {
		return 0
	}
	return f
}

// RoundDefault rounds value half-up to DefaultDecimals places.
func RoundDefault(value float64) float64 {
	return Round(value, DefaultDecimals)
}

// ToAmount normalizes a numeric-or-nil-or-decimal-like value to a plain
// float64. Unknown or nil input is defined to 0, never an error, so
// callers can route raw persistence values through it unconditionally.
func ToAmount(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return ToAmount(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case decimal.Decimal:
		return v.InexactFloat64()
	case *decimal.Decimal:
		if v == nil {
			return 0
		}
		return v.InexactFloat64()
	case *float64:
		if v == nil {
			return 0
		}
		return ToAmount(*v)
	case string:
		return ParseAmount(v)
	default:
		return 0
	}
}

// ParseAmount parses user-entered text into a safe, non-negative
// amount. It accepts both dot and comma decimal separators and strips
// grouping spaces. Empty, invalid or negative input is defined to 0;
// direction always comes from the transaction type, never from a sign
// in the text.
func ParseAmount(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, " ", "")
	// A single comma is treated as the decimal separator (12,34);
	// otherwise commas are thousands grouping (1,234.56).
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// ApproximatelyEqual reports whether a and b are equal within Epsilon
// after rounding both to the default precision. It is the only equality
// the ledger uses for monetary values.
func ApproximatelyEqual(a, b float64) bool {
	return math.Abs(RoundDefault(a)-RoundDefault(b)) < Epsilon
}
