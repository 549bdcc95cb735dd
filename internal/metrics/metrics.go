// Package metrics exposes prometheus collectors for the ledger engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerWrites counts write transactions by operation and outcome
// (ok, validation, not_found, invariant, conflict, error).
var LedgerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "budgeteer_ledger_writes_total",
	Help: "Ledger write transactions by operation and outcome.",
}, []string{"op", "result"})

// LedgerWriteDuration observes how long a write transaction held the tenant lock.
var LedgerWriteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "budgeteer_ledger_write_duration_seconds",
	Help:    "Duration of ledger write transactions.",
	Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
}, []string{"op"})

// RowsWritten counts transaction rows created per operation.
var RowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "budgeteer_ledger_rows_created_total",
	Help: "Transaction rows created by ledger writes.",
}, []string{"op"})

// BalanceMismatches counts stored-vs-computed balance disagreements found by verification.
var BalanceMismatches = promauto.NewCounter(prometheus.CounterOpts{
	Name: "budgeteer_balance_mismatches_total",
	Help: "Accounts whose stored balance disagreed with the computed running balance.",
})
