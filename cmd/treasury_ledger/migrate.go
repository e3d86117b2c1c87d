package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/treasury_ledger/internal/platform/config"
	"github.com/SscSPs/treasury_ledger/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or revert database migrations",
	Example:   "  treasury_ledger migrate up\n  treasury_ledger migrate down",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := database.MigrateDirection(args[0])
		if direction != database.MigrateUp && direction != database.MigrateDown {
			return fmt.Errorf("unknown direction %q, expected up or down", args[0])
		}

		logger := newLogger()
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.StorageDriver == config.StorageMemory {
			return fmt.Errorf("migrations need STORAGE_DRIVER=%s", config.StoragePostgres)
		}
		return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction, logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
