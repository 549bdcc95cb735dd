// Package apperr holds the error taxonomy shared by the ledger components.
// Components return these typed failures (possibly wrapped) and never retry;
// callers use the Is* helpers to decide on messaging or retry.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s (%s)", e.Message, e.Field)
}

// NotFoundError reports an unknown id within a tenant.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// InvariantViolationError reports an operation that would break, or data
// that already breaks, a ledger invariant.
type InvariantViolationError struct {
	Invariant string
	Message   string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant %s violated: %s", e.Invariant, e.Message)
}

// ConcurrencyError reports a conflicting write transaction.
type ConcurrencyError struct {
	Op  string
	Err error
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("%s: write conflict: %v", e.Op, e.Err)
}

func (e *ConcurrencyError) Unwrap() error { return e.Err }

// Invariant names used in InvariantViolationError.
const (
	InvTransferPair  = "transfer-pair"
	InvSplitBalance  = "split-balance"
	InvSplitNonEmpty = "split-non-empty"
	InvStoredBalance = "stored-balance"
	InvOpening       = "opening-transaction"
)

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(resource string, id any) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func Invariant(name, format string, args ...any) error {
	return &InvariantViolationError{Invariant: name, Message: fmt.Sprintf(format, args...)}
}

func Concurrency(op string, err error) error {
	return &ConcurrencyError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsInvariant(err error) bool {
	var e *InvariantViolationError
	return errors.As(err, &e)
}

func IsConcurrency(err error) bool {
	var e *ConcurrencyError
	return errors.As(err, &e)
}
