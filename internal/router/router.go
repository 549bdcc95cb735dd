package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/config"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/handler"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/ledger"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/middleware"
)

// SetupRouter builds the gin engine serving the ledger API.
func SetupRouter(cfg *config.Config, l *ledger.Ledger, log *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(
		middleware.Auth(cfg.JWT.Secret),
		middleware.Audit(l.Store.DB(), log),
	)

	api.GET("/me", handler.GetMe)

	tx := handler.NewTransactionHandler(l.Store, l.View, l.Transfers, log)
	api.POST("/transactions", tx.Create)
	api.POST("/transactions/batch", tx.CreateBatch)
	api.GET("/transactions", tx.List)
	api.GET("/transactions/search", tx.Search)
	api.GET("/transactions/:id", tx.Get)
	api.GET("/transactions/:id/sibling", tx.Sibling)
	api.PATCH("/transactions/:id", tx.Update)
	api.POST("/transactions/:id/void", tx.Void())
	api.POST("/transactions/:id/restore", tx.Restore())
	api.DELETE("/transactions/:id", tx.Delete())
	api.DELETE("/transactions/:id/purge", tx.Purge())

	tr := handler.NewTransferHandler(l.Transfers, log)
	api.POST("/transfers", tr.Create)
	api.GET("/transfers/:id", tr.Get)
	api.PATCH("/transfers/:id", tr.Update)
	api.GET("/transfers/:id/verify", tr.Verify)

	sp := handler.NewSplitHandler(l.Splits, log)
	api.POST("/splits", sp.Commit)
	api.GET("/splits/:id/draft", sp.Draft)

	acct := handler.NewAccountHandler(l.Store, l.Accounts, log)
	api.POST("/accounts", acct.Create)
	api.GET("/accounts", acct.List)
	api.GET("/accounts/total", acct.Total)
	api.GET("/accounts/verify", acct.VerifyAll)
	api.GET("/accounts/:id", acct.Get)
	api.PATCH("/accounts/:id", acct.Update)
	api.DELETE("/accounts/:id", acct.Delete)
	api.GET("/accounts/:id/balance", acct.Balance)
	api.GET("/accounts/:id/opening", acct.Opening)
	api.GET("/accounts/:id/verify", acct.Verify)

	cat := handler.NewCategoryHandler(l.Store, log)
	api.POST("/categories", cat.Create)
	api.GET("/categories", cat.List)
	api.GET("/categories/:id", cat.Get)

	ie := handler.NewImportExportHandler(l.Importer, l.Store, log)
	api.POST("/import/csv", ie.ImportCSV)
	api.POST("/import/xlsx", ie.ImportXLSX)
	api.GET("/export/csv", ie.ExportCSV)
	api.GET("/export/xlsx", ie.ExportXLSX)

	logs := handler.NewLogHandler(l.Store.DB(), l.Store, log)
	api.GET("/logs", logs.ListLogs)

	return r
}
