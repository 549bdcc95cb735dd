// Package cli holds the budgeteer command line: the API server plus
// maintenance commands that work on the same database.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/config"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/database"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/ledger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "budgeteer",
	Short:         "Multi-tenant transaction ledger",
	Long:          `budgeteer keeps accounts, transactions, transfers and split transactions with running balances, served over a JSON API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what most commands need: configuration, a logger and the
// migrated database.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func (e *env) close() {
	if e.db != nil {
		if err := database.Close(e.db); err != nil {
			e.log.Warn("close database", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

func (e *env) ledger() (*ledger.Ledger, error) {
	return ledger.New(e.db, e.cfg, e.log)
}

// setup loads config, builds the logger and opens the database. migrate
// also brings the schema up to date.
func setup(migrate bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log, db: db}
	if migrate {
		if err := database.AutoMigrate(db); err != nil {
			e.close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return e, nil
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
