package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"strings"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/psds-microservice/helpdesk/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

func ensureDatabase(databaseURL string) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return fmt.Errorf("database name is empty in url")
	}
	u.Path = "/postgres"
	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return fmt.Errorf("open admin connection: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping admin connection: %w", err)
	}
	var exists bool
	if err := db.QueryRow("SELECT true FROM pg_database WHERE datname = $1", dbName).Scan(&exists); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check database existence: %w", err)
	}
	if exists {
		return nil
	}
	if _, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("create database %q: %w", dbName, err)
	}
	log.Printf("database: created %q\n", dbName)
	return nil
}

// NewMigrator returns a goose provider over db with the embedded migrations for driver.
func NewMigrator(db *sql.DB, driver string) (*goose.Provider, error) {
	var dialect goose.Dialect
	switch driver {
	case config.DriverPostgres:
		dialect = goose.DialectPostgres
	case config.DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	fsys, err := fs.Sub(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("migrations fs: %w", err)
	}
	return goose.NewProvider(dialect, db, fsys)
}

// Migrate applies pending migrations on an already open connection.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	p, err := NewMigrator(db, driver)
	if err != nil {
		return fmt.Errorf("migrate new: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		log.Println("migrate: no pending migrations")
		return nil
	}
	for _, r := range results {
		log.Printf("migrate: applied %s (%s)", r.Source.Path, r.Duration)
	}
	log.Println("migrate: up ok")
	return nil
}

// OpenSQL opens a plain database/sql connection for migrations.
// Для postgres база создаётся, если её ещё нет.
func OpenSQL(cfg *config.Config) (*sql.DB, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		if err := ensureDatabase(cfg.DatabaseURL()); err != nil {
			return nil, fmt.Errorf("ensure database: %w", err)
		}
		return sql.Open("postgres", cfg.DatabaseURL())
	case config.DriverSQLite:
		return sql.Open("sqlite3", cfg.SQLiteDSN())
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
}

func MigrateUp(ctx context.Context, cfg *config.Config) error {
	db, err := OpenSQL(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return Migrate(ctx, db, cfg.DB.Driver)
}
