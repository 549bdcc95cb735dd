// Package accounts answers balance questions about accounts and checks
// that stored balances agree with the transactions behind them.
package accounts

import (
	"context"
	"errors"
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/balance"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/metrics"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
)

type Accessor struct {
	store  *store.Store
	engine balance.Engine
	log    *zap.Logger
}

// NewAccessor uses engine for the running-balance cross check in Verify.
func NewAccessor(s *store.Store, engine balance.Engine, log *zap.Logger) *Accessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Accessor{store: s, engine: engine, log: log.Named("accounts")}
}

func (a *Accessor) load(ctx context.Context, tenantID string, accountID uint) (*models.Account, []models.Transaction, error) {
	acct, err := a.store.FindAccount(ctx, tenantID, accountID)
	if err != nil {
		return nil, nil, err
	}
	txs, err := a.store.AccountTransactions(ctx, tenantID, accountID)
	if err != nil {
		return nil, nil, err
	}
	return acct, txs, nil
}

// CurrentBalance is the running balance after the account's last counted
// transaction, or the stored balance when nothing counts.
func (a *Accessor) CurrentBalance(ctx context.Context, tenantID string, accountID uint) (int64, error) {
	acct, txs, err := a.load(ctx, tenantID, accountID)
	if err != nil {
		return 0, err
	}
	return balance.Current(txs, acct.BalanceCent), nil
}

// BalanceAtDate sums the counted transactions dated on or before date.
func (a *Accessor) BalanceAtDate(ctx context.Context, tenantID string, accountID uint, date time.Time) (int64, error) {
	if date.IsZero() {
		return 0, apperr.Validation("date", "date is required")
	}
	_, txs, err := a.load(ctx, tenantID, accountID)
	if err != nil {
		return 0, err
	}
	return balance.AtDate(txs, date.UTC()), nil
}

// OpeningTransaction returns the account's single Initial transaction.
func (a *Accessor) OpeningTransaction(ctx context.Context, tenantID string, accountID uint) (*models.Transaction, error) {
	if _, err := a.store.FindAccount(ctx, tenantID, accountID); err != nil {
		return nil, err
	}
	txs, err := a.store.InitialTransactions(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if len(txs) != 1 {
		return nil, apperr.Invariant(apperr.InvOpening, "account %d has %d opening transactions", accountID, len(txs))
	}
	return &txs[0], nil
}

// TotalBalance sums the current balances of the tenant's accounts per
// currency. Amounts in different currencies are never added together.
func (a *Accessor) TotalBalance(ctx context.Context, tenantID string) (map[string]int64, error) {
	accts, err := a.store.ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64)
	for _, acct := range accts {
		b, err := a.CurrentBalance(ctx, tenantID, acct.ID)
		if err != nil {
			return nil, err
		}
		out[acct.Currency] += b
	}
	return out, nil
}

// Report is the outcome of verifying one account.
type Report struct {
	AccountID    uint   `json:"account_id"`
	Name         string `json:"name"`
	StoredCent   int64  `json:"stored_cent"`
	ComputedCent int64  `json:"computed_cent"`
	OK           bool   `json:"ok"`
}

// Verify compares the stored balance with the computed one and the
// engine's running balances with a fresh scan. Any disagreement is an
// InvariantViolationError; the report is returned either way.
func (a *Accessor) Verify(ctx context.Context, tenantID string, accountID uint) (Report, error) {
	acct, txs, err := a.load(ctx, tenantID, accountID)
	if err != nil {
		return Report{AccountID: accountID}, err
	}
	computed := balance.Current(txs, 0)
	r := Report{
		AccountID:    acct.ID,
		Name:         acct.Name,
		StoredCent:   acct.BalanceCent,
		ComputedCent: computed,
		OK:           acct.BalanceCent == computed,
	}
	if !r.OK {
		metrics.BalanceMismatches.Inc()
		a.log.Warn("stored balance disagrees with transactions",
			zap.String("tenant", tenantID),
			zap.Uint("account", accountID),
			zap.String("stored", money.String(r.StoredCent)),
			zap.String("computed", money.String(r.ComputedCent)))
		return r, apperr.Invariant(apperr.InvStoredBalance, "account %d stores %s but its transactions sum to %s",
			accountID, money.String(r.StoredCent), money.String(r.ComputedCent))
	}

	running, err := a.engine.RunningBalances(ctx, tenantID, accountID)
	if err != nil {
		return r, err
	}
	if !maps.Equal(running, balance.Compute(txs)) {
		r.OK = false
		metrics.BalanceMismatches.Inc()
		return r, apperr.Invariant(apperr.InvStoredBalance, "running balances of account %d differ between engines", accountID)
	}
	return r, nil
}

// VerifyAll verifies every account of the tenant and joins the failures.
func (a *Accessor) VerifyAll(ctx context.Context, tenantID string) ([]Report, error) {
	accts, err := a.store.ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	reports := make([]Report, 0, len(accts))
	var errs []error
	for _, acct := range accts {
		r, err := a.Verify(ctx, tenantID, acct.ID)
		reports = append(reports, r)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}
