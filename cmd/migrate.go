package cmd

import (
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/pressly/goose/v3"
	"github.com/psds-microservice/helpdesk/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE:  runMigrateDown,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := database.MigrateUp(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("migrate up: ok")
	return nil
}

func withMigrator(fn func(p *goose.Provider) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.OpenSQL(cfg)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()
	p, err := database.NewMigrator(db, cfg.DB.Driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return fn(p)
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	return withMigrator(func(p *goose.Provider) error {
		res, err := p.Down(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		fmt.Printf("%s %s\n", color.New(color.FgYellow).Sprint("ROLLED BACK"), res.Source.Path)
		return nil
	})
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	return withMigrator(func(p *goose.Provider) error {
		statuses, err := p.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range statuses {
			state := color.New(color.FgYellow).Sprint("PENDING")
			applied := ""
			if s.State == goose.StateApplied {
				state = color.New(color.FgGreen).Sprint("APPLIED")
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("  %s  %05d  %-40s %s\n", state, s.Source.Version, s.Source.Path, applied)
		}
		return nil
	})
}
