package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/psds-microservice/helpdesk/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open подключается к БД выбранного драйвера (postgres или sqlite).
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLiteDSN())
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}
	gormLogger := logger.New(log.New(os.Stderr, "gorm: ", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
	return gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
}
