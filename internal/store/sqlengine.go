package store

import (
	"context"
	"fmt"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/database"
)

// SQLEngine computes running balances declaratively, reading the
// window-function view created by database.AutoMigrate. It must agree with
// balance.Compute on every input.
type SQLEngine struct {
	store *Store
}

func NewSQLEngine(s *Store) *SQLEngine {
	return &SQLEngine{store: s}
}

type runningRow struct {
	ID             uint
	RunningBalance int64
}

func (e *SQLEngine) RunningBalances(ctx context.Context, tenantID string, accountID uint) (map[uint]int64, error) {
	if tenantID == "" {
		return nil, apperr.Validation("tenant_id", "tenant id is required")
	}
	var rows []runningRow
	err := e.store.db.WithContext(ctx).
		Table(database.RunningBalanceView).
		Select("id, running_balance").
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("running balances of account %d: %w", accountID, err)
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.ID] = r.RunningBalance
	}
	return out, nil
}
