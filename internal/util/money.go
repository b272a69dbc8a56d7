package util

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds to cents, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PctUsed returns consumed as a percentage of budget rounded to 2 places, or zero when budget <= 0
func PctUsed(consumed, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	return Round2(consumed.Div(budget).Mul(hundred))
}

// ParseAmount coerces a loosely typed amount to a decimal.
// Anything non-numeric or non-finite becomes zero rather than an error.
func ParseAmount(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(n)
	case float32:
		return ParseAmount(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		return ParseAmount(string(n))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
