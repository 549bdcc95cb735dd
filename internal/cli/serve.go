package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/router"
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(true)
		if err != nil {
			return err
		}
		defer e.close()
		e.log.Info("schema migrated", zap.String("database", e.cfg.Database.Path))
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup(true)
	if err != nil {
		return err
	}
	defer e.close()

	l, err := e.ledger()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", e.cfg.Server.Address, e.cfg.Server.Port),
		Handler:           router.SetupRouter(e.cfg, l, e.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("balance_engine", e.cfg.Ledger.BalanceEngine))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
