package util

import (
	"testing"
	"time"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
)

func TestParseAmount_Valid(t *testing.T) {
	cases := map[string]int64{
		"0.01":       1,
		"12":         1200,
		"-45.5":      -4550,
		" 3.335 ":    334,
		"9999999.99": 999999999,
	}
	for in, want := range cases {
		got, err := ParseAmount("amount", in)
		if err != nil {
			t.Errorf("ParseAmount(%q) error = %v, want nil", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAmount(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{
		"", "abc", "1,50", "1000000000", "-1000000000",
		"184467440737095516.21", "99999999999999999999",
	} {
		_, err := ParseAmount("amount", in)
		if !apperr.IsValidation(err) {
			t.Errorf("ParseAmount(%q) error = %v, want validation error", in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-01":                time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"2024-06-15T08:30:00":       time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC),
		"2024-06-15T08:30:00+02:00": time.Date(2024, 6, 15, 6, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseDate("date", in)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", in, err)
			continue
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "2024/01/01", "2024-13-01", "tomorrow"} {
		if _, err := ParseDate("date", in); !apperr.IsValidation(err) {
			t.Errorf("ParseDate(%q) error = %v, want validation error", in, err)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("name", "Groceries", 20); err != nil {
		t.Errorf("ValidateName error = %v, want nil", err)
	}
	if err := ValidateName("name", "   ", 20); err == nil {
		t.Error("ValidateName(blank) error = nil, want error")
	}
	if err := ValidateName("name", "日常开销日常开销", 8); err != nil {
		t.Errorf("ValidateName counts runes, got %v", err)
	}
	if err := ValidateName("name", "abcdefghi", 8); err == nil {
		t.Error("ValidateName(too long) error = nil, want error")
	}
}
