package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts travel through the API as decimal strings ("100.00"). All
// arithmetic goes through shopspring/decimal so a malformed amount is
// rejected at the boundary instead of propagating NaN into balances.

// ParseAmount parses a positive decimal amount string.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() || d.IsZero() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", s)
	}
	return d, nil
}

// ParseNonNegativeAmount parses a decimal amount string that may be zero,
// e.g. fees and seeded balances.
func ParseNonNegativeAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative, got %s", s)
	}
	return d, nil
}

// FormatAmount renders a decimal as the canonical two-place string used in
// balances and API payloads.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
