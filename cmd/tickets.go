package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/psds-microservice/helpdesk/internal/application"
	"github.com/psds-microservice/helpdesk/internal/database"
	"github.com/psds-microservice/helpdesk/internal/service"
	"github.com/spf13/cobra"
)

var (
	exportOut    string
	purgeConfirm string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tickets as CSV (newest first)",
	RunE:  runExport,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every ticket. Requires --confirm " + service.ConfirmationPhrase,
	RunE:  runPurge,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	purgeCmd.Flags().StringVar(&purgeConfirm, "confirm", "", "type "+service.ConfirmationPhrase+" to confirm")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(purgeCmd)
}

func openTicketService() (*service.TicketService, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db: %w", err)
	}
	svc, producer := application.NewTicketService(cfg, db)
	cleanup := func() {
		svc.Wait()
		_ = producer.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return svc, cleanup, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openTicketService()
	if err != nil {
		return err
	}
	defer cleanup()

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := svc.ExportCSV(cmd.Context(), w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s tickets written to %s\n", color.New(color.FgGreen).Sprint("OK"), exportOut)
	}
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openTicketService()
	if err != nil {
		return err
	}
	defer cleanup()

	deleted, err := svc.DeleteAll(cmd.Context(), purgeConfirm)
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	if !deleted {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s confirmation text mismatch, nothing deleted\n", color.New(color.FgRed).Sprint("ABORTED"))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s all tickets deleted\n", color.New(color.FgYellow).Sprint("PURGED"))
	return nil
}
