package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsSurviveWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"validation", Validation("amount", "not a number: %q", "abc"), IsValidation},
		{"not found", NotFound("transaction", uint(7)), IsNotFound},
		{"invariant", Invariant(InvSplitBalance, "off by %d", 3), IsInvariant},
		{"concurrency", Concurrency("create", errors.New("database is locked")), IsConcurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, tt.is(wrapped))
		})
	}
}

func TestKindsDoNotCross(t *testing.T) {
	err := NotFound("account", 1)
	assert.False(t, IsValidation(err))
	assert.False(t, IsInvariant(err))
	assert.False(t, IsConcurrency(err))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "validation: required (tenant_id)", Validation("tenant_id", "required").Error())
	assert.Equal(t, "transaction 9 not found", NotFound("transaction", 9).Error())
	assert.Equal(t, "invariant transfer-pair violated: same account",
		Invariant(InvTransferPair, "same account").Error())
}
