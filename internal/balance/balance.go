// Package balance orders ledger transactions canonically and computes
// running balances over them. Everything here is pure and synchronous;
// storage-backed engines feed it through Loader or implement Engine
// themselves.
package balance

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
)

// Compare orders two transactions by (date, created at, updated at, type, id).
// A nil UpdatedAt sorts before any timestamp, matching SQL NULL ordering.
// Distinct ids never compare equal, so the order is strict and total.
func Compare(a, b *models.Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	if c := compareOptionalTime(a.UpdatedAt, b.UpdatedAt); c != 0 {
		return c
	}
	if c := strings.Compare(string(a.Type), string(b.Type)); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

// Less reports whether a precedes b in canonical order.
func Less(a, b *models.Transaction) bool {
	return Compare(a, b) < 0
}

// Sort orders txs ascending (oldest first) in place.
func Sort(txs []models.Transaction) {
	slices.SortFunc(txs, func(a, b models.Transaction) int { return Compare(&a, &b) })
}

// SortDesc orders txs descending (newest first) in place.
func SortDesc(txs []models.Transaction) {
	slices.SortFunc(txs, func(a, b models.Transaction) int { return Compare(&b, &a) })
}

// Compute returns the running balance of every transaction in txs, keyed by id.
// Void and deleted rows do not move the sum; they are recorded with the
// balance carried forward from the previous counted row.
// The input slice is not modified.
func Compute(txs []models.Transaction) map[uint]int64 {
	ordered := slices.Clone(txs)
	Sort(ordered)

	out := make(map[uint]int64, len(ordered))
	var sum int64
	for i := range ordered {
		t := &ordered[i]
		if t.Counted() {
			sum += t.AmountCent
		}
		out[t.ID] = sum
	}
	return out
}

// Current returns the balance after the last counted transaction, or
// baseline when none of txs is counted.
func Current(txs []models.Transaction, baseline int64) int64 {
	var (
		sum     int64
		counted bool
	)
	for i := range txs {
		if txs[i].Counted() {
			sum += txs[i].AmountCent
			counted = true
		}
	}
	if !counted {
		return baseline
	}
	return sum
}

// AtDate sums counted transactions dated on or before target.
func AtDate(txs []models.Transaction, target time.Time) int64 {
	var sum int64
	for i := range txs {
		t := &txs[i]
		if t.Counted() && !t.Date.After(target) {
			sum += t.AmountCent
		}
	}
	return sum
}

// Engine computes running balances for one account of a tenant.
type Engine interface {
	RunningBalances(ctx context.Context, tenantID string, accountID uint) (map[uint]int64, error)
}

// Loader fetches every non-deleted transaction of an account, void rows included.
type Loader interface {
	AccountTransactions(ctx context.Context, tenantID string, accountID uint) ([]models.Transaction, error)
}

// ScanEngine is the imperative Engine: it loads the account's rows and
// walks them in canonical order.
type ScanEngine struct {
	loader Loader
}

func NewScanEngine(loader Loader) *ScanEngine {
	return &ScanEngine{loader: loader}
}

func (e *ScanEngine) RunningBalances(ctx context.Context, tenantID string, accountID uint) (map[uint]int64, error) {
	txs, err := e.loader.AccountTransactions(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	return Compute(txs), nil
}
