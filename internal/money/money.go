// Package money converts between user-facing decimal amounts and the
// integer minor units stored in the ledger.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every amount.
const Scale = 2

// Parse converts a decimal string such as "-12.345" into cents, rounding
// half away from zero. Values that do not fit in int64 cents are rejected.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if !InRange(d) {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	return FromDecimal(d), nil
}

// InRange reports whether d, rounded to Scale places, fits in int64 cents.
func InRange(d decimal.Decimal) bool {
	return d.Round(Scale).Shift(Scale).BigInt().IsInt64()
}

// Coerce is Parse with invalid input mapped to zero.
func Coerce(s string) int64 {
	c, err := Parse(s)
	if err != nil {
		return 0
	}
	return c
}

// FromDecimal rounds d to Scale places and returns it in cents. d must
// satisfy InRange.
func FromDecimal(d decimal.Decimal) int64 {
	return d.Round(Scale).Shift(Scale).IntPart()
}

// ToDecimal returns the cents value as a decimal with Scale places.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -Scale)
}

// String renders cents as a plain decimal string, e.g. -1234 -> "-12.34".
func String(cents int64) string {
	return ToDecimal(cents).StringFixed(Scale)
}

// Format renders cents with the currency's symbol and grouping, e.g. "$1,234.50".
// Unknown currency codes fall back to the plain decimal followed by the code.
func Format(cents int64, currency string) string {
	if currency == "" || gomoney.GetCurrency(currency) == nil {
		return strings.TrimSpace(String(cents) + " " + currency)
	}
	return gomoney.New(cents, currency).Display()
}

func Abs(cents int64) int64 {
	if cents < 0 {
		return -cents
	}
	return cents
}
