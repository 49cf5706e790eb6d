package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundCents rounds v to two decimal places, half away from zero.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatAmount renders v with exactly two decimal places.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// ParseAmount parses a user-supplied amount. Negative values are rejected.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount cannot be negative: %s", s)
	}
	return d.InexactFloat64(), nil
}
