// Package ledger assembles the ledger components from configuration.
package ledger

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/accounts"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/balance"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/config"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/importer"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/split"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/transfer"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/view"
)

type Ledger struct {
	Store     *store.Store
	Engine    balance.Engine
	View      *view.Materializer
	Transfers *transfer.Coordinator
	Splits    *split.Builder
	Accounts  *accounts.Accessor
	Importer  *importer.Importer
}

// NewEngine returns the running-balance engine named by kind.
func NewEngine(kind string, s *store.Store) (balance.Engine, error) {
	switch kind {
	case "scan":
		return balance.NewScanEngine(s), nil
	case "sql", "":
		return store.NewSQLEngine(s), nil
	}
	return nil, fmt.Errorf("unknown balance engine %q", kind)
}

func New(db *gorm.DB, cfg *config.Config, log *zap.Logger) (*Ledger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := store.New(db, store.Options{
		PageSize:        cfg.App.PageSize,
		MaxPageSize:     cfg.App.MaxPageSize,
		DefaultCurrency: cfg.Ledger.DefaultCurrency,
		Logger:          log,
	})
	engine, err := NewEngine(cfg.Ledger.BalanceEngine, s)
	if err != nil {
		return nil, err
	}
	v := view.New(s, engine)
	return &Ledger{
		Store:     s,
		Engine:    engine,
		View:      v,
		Transfers: transfer.NewCoordinator(s, v, log),
		Splits:    split.NewBuilder(s, cfg.Ledger.SplitToleranceCent, log),
		Accounts:  accounts.NewAccessor(s, engine, log),
		Importer:  importer.New(s, v, log),
	}, nil
}
