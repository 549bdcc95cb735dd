package database

import (
	"fmt"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"

	"gorm.io/gorm"
)

// RunningBalanceView is the declarative running-balance materialisation.
// Its ORDER BY must stay in step with balance.Compare.
const RunningBalanceView = "transaction_running_balances"

const runningBalanceViewSQL = `
CREATE VIEW ` + RunningBalanceView + ` AS
SELECT
	t.id,
	t.tenant_id,
	t.account_id,
	SUM(CASE WHEN t.is_void THEN 0 ELSE t.amount_cent END) OVER (
		PARTITION BY t.tenant_id, t.account_id
		ORDER BY t.date, t.created_at, t.updated_at, t.type, t.id
		ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW
	) AS running_balance
FROM transactions t
WHERE t.deleted_at IS NULL`

// AutoMigrate runs database schema migrations for all models and
// recreates the running-balance view.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Category{},
		&models.TransactionGroup{},
		&models.Transaction{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec("DROP VIEW IF EXISTS " + RunningBalanceView).Error; err != nil {
		return fmt.Errorf("drop running balance view: %w", err)
	}
	if err := db.Exec(runningBalanceViewSQL).Error; err != nil {
		return fmt.Errorf("create running balance view: %w", err)
	}
	return nil
}
