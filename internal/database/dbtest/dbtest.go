// Package dbtest opens a migrated throwaway SQLite database for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/psds-microservice/helpdesk/internal/config"
	"github.com/psds-microservice/helpdesk/internal/database"
	"gorm.io/gorm"
)

// Open returns a gorm handle on a fresh SQLite file under t.TempDir(),
// migrated with the production migrations.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &config.Config{LogLevel: "warn"}
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.Path = filepath.Join(t.TempDir(), "helpdesk.db")

	if err := database.MigrateUp(context.Background(), cfg); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}
