// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/config"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/database"
)

// Open returns a migrated database under t.TempDir, closed on cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "ledger_test.db"),
	})
	if err != nil {
		t.Fatalf("init test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("close test database: %v", err)
		}
	})
	return db
}
