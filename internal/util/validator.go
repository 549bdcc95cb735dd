package util

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
)

// MaxAmountCent bounds a single amount typed into the API.
const MaxAmountCent = 100_000_000_000

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseAmount converts decimal text to cents. Unlike the store it refuses
// anything that is not a number.
func ParseAmount(field, s string) (int64, error) {
	cents, err := money.Parse(s)
	if err != nil {
		return 0, apperr.Validation(field, "%q is not a valid amount", s)
	}
	if money.Abs(cents) >= MaxAmountCent {
		return 0, apperr.Validation(field, "amount %s is too large", s)
	}
	return cents, nil
}

// ParseDate accepts RFC 3339, a local timestamp or a bare date. Values
// without a zone are read as UTC.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.Validation(field, "date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation(field, "%q is not a valid date", s)
}

// ValidateName checks a display name is present and at most max runes.
func ValidateName(field, name string, max int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation(field, "%s is empty", field)
	}
	if utf8.RuneCountInString(name) > max {
		return apperr.Validation(field, "%s is longer than %d characters", field, max)
	}
	return nil
}
