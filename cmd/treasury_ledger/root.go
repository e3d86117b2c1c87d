package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/core/services"
	"github.com/SscSPs/treasury_ledger/internal/platform/config"
	"github.com/SscSPs/treasury_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/treasury_ledger/internal/repositories/memory"
	"github.com/SscSPs/treasury_ledger/internal/utils"
	"github.com/SscSPs/treasury_ledger/pkg/database"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "treasury_ledger",
	Short: "Treasury ledger service and maintenance commands",
	Long: `treasury_ledger runs the HTTP API for treasuries, invoices, installments
and equity periods, plus the maintenance jobs behind it.

Configuration is read from the environment and an optional .env file
(PGSQL_URL, STORAGE_DRIVER, JWT_SECRET, ...).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is what every command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	services *portssvc.ServiceContainer
	posthog  *utils.PosthogClientWrapper
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	return logger
}

// newApp loads configuration and wires storage and services.
// Postgres storage is migrated first when migrateFirst is set.
func newApp(ctx context.Context, migrateFirst bool) (*app, error) {
	logger := newLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage")
		repos = memory.NewRepositoryProvider()
	default:
		if migrateFirst {
			logger.Info("Running database migrations...")
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp, logger); err != nil {
				return nil, err
			}
		}
		a.pool, err = database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		repos = pgsql.NewRepositoryProvider(a.pool)
	}

	a.posthog = utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	a.services = services.NewServiceContainer(cfg, repos)
	return a, nil
}

func (a *app) Close() {
	a.posthog.Close()
	if a.pool != nil {
		a.pool.Close()
	}
}
