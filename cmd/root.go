package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/psds-microservice/helpdesk/internal/config"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "helpdesk",
	Short:        "Support desk: public ticket form, admin triage console",
	RunE:         runAPI,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (env CONFIG_FILE)")
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig читает .env, YAML-файл и переменные окружения и проверяет секцию db.
// Полная проверка (ADMIN_PASSWORD, SESSION_SECRET) — в application.NewAPI.
func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
