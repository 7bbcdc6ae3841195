package decimal

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of fractional digits monetary amounts are rounded to
const CurrencyPlaces = 2

// Zero is decimal zero
var Zero = decimal.Zero

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// Parse converts a string or exact numeric value into a decimal.
// Binary floating point values are rejected: they cannot round-trip
// through exact equality checks.
func Parse(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case *decimal.Decimal:
		if t == nil {
			return Zero, fmt.Errorf("nil decimal")
		}
		return *t, nil
	case string:
		return FromString(t)
	case json.Number:
		return FromString(t.String())
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int32:
		return decimal.NewFromInt32(t), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(t)), 0), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(t), 0), nil
	case float32, float64:
		return Zero, fmt.Errorf("floating point value %v not accepted, use a string", t)
	default:
		return Zero, fmt.Errorf("unsupported decimal input type %T", v)
	}
}

// MustParse is Parse that panics on error, for fixtures and constants
func MustParse(v any) decimal.Decimal {
	d, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds to currency precision, half away from zero (2.345 -> 2.35, -2.345 -> -2.35)
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// Mul multiplies two decimals, rounds to 2 places
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return Round2(a.Mul(b))
}

// Percentage computes amount * (percent/100) rounded to 2 places.
// Dividing by 100 is a shift of the exponent, so the result is rounded once.
func Percentage(amount, percent decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(percent).Shift(-2))
}

// Sum sums a slice of decimals without intermediate rounding
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Format renders d with exactly digits fractional places, e.g. 29 -> "29.00"
func Format(d decimal.Decimal, digits int32) string {
	return d.StringFixed(digits)
}

// Display renders an amount for diagnostics: at least two fractional digits,
// more if the value carries them.
func Display(d decimal.Decimal) string {
	if d.Equal(Round2(d)) {
		return d.StringFixed(CurrencyPlaces)
	}
	return d.String()
}
