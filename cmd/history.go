package cmd

import (
	"fmt"
	"os"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/internal/runstore"
	"github.com/greenmetrics/greenmetrics/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadHistoryConfig reads the backend settings shared by the history subcommands.
func loadHistoryConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseDatabaseBackend(viper.GetString("history-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need the run store without the full shared setup.
func historySetup() error {
	if err := loadHistoryConfig(); err != nil {
		return err
	}
	if err := runstore.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadHistoryConfig(); err != nil {
		return err
	}
	// For SQLite backend with empty connection string, use default path
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect == "" {
		cfg.HistoryDBConnect = contract.GetHistoryDBFilePath()
	}
	return nil
}

// historyCmd focuses on run history management.
//
// Note: history subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by the pipeline commands. This avoids root directory
// validation for simple store operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of aggregation runs",
	Long: `Manage the stored history of aggregation runs.

When enabled, greenmetrics tracks every pipeline run, storing:
- Run metadata (command, root, configuration, duration)
- The group and greenability scores of every scored system

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Check history status
  greenmetrics history status

  # Export for analysis in pandas/DuckDB
  greenmetrics history export --output-file history`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, the number of stored runs, the first and last run times,
the number of scored systems and the size of each history table.

Examples:
  greenmetrics history status
  greenmetrics history status --history-backend mysql --history-db-connect 'user:pass@tcp(localhost:3306)/green'`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := runstore.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("run history is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		runstore.PrintHistoryStatus(os.Stdout, status, runstore.DescribeTarget(cfg.HistoryBackend, cfg.HistoryDBConnect))
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs and scores to Parquet.

Writes two files next to the given prefix:
- <output-file>.runs.parquet - metadata about each run
- <output-file>.system_scores.parquet - the scores of every system per run

Requires: --output-file parameter

Examples:
  greenmetrics history export --output-file green
  duckdb -c "SELECT * FROM read_parquet('green.system_scores.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.OutputFile == "" {
			contract.LogFatal("Failed to export run history", fmt.Errorf("--output-file is required"))
		}
		if err := runstore.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored run history",
	Long: `Delete all stored runs and system scores.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  greenmetrics history export --output-file backup
  greenmetrics history clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadHistoryConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := contract.GetHistoryDBFilePath()
		if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
			dbFilePath = cfg.HistoryDBConnect
		}
		if err := runstore.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  greenmetrics history migrate

  # Rollback to the initial state
  greenmetrics history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
