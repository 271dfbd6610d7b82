package cmd

import (
	"fmt"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/iocache"
	"github.com/huangsam/trendscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackend reads and validates the run history backend settings.
// An empty backend means history is disabled.
func historyBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}
	backend := schema.DatabaseBackend(viper.GetString("run-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("run-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// It skips dataset discovery entirely.
func historySetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackend()
	if err != nil {
		return err
	}
	if backend != schema.NoneBackend {
		if err := iocache.InitStores(backend, connStr); err != nil {
			return fmt.Errorf("failed to initialize run history: %w", err)
		}
	}
	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historyMigrateSetup is historySetup without opening the store,
// so migrations can run against a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackend()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunDBFilePath()
	}
	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	return nil
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of recorded dashboard runs",
	Long: `Manage the history of dashboard computations.

When --run-backend is set, every summary computation (CLI summary, dashboard page,
MCP get_summary) is recorded with its configuration, timing and headline metrics.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export runs to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite file
  trendscope summary --run-backend sqlite
  trendscope history status --run-backend sqlite`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete every recorded run.

For SQLite the database file is removed. For MySQL and PostgreSQL the tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  trendscope history export --run-backend sqlite --output-file backup
  trendscope history clear --run-backend sqlite`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		dbFile := cfg.RunDBConnect
		if dbFile == "" {
			dbFile = contract.GetRunDBFilePath()
		}
		if err := iocache.ClearRuns(cfg.RunBackend, dbFile, cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, whether it is reachable, the number of recorded runs
and the time of the newest and oldest run.

Examples:
  trendscope history status --run-backend sqlite`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetRunStore()
		if store == nil {
			iocache.PrintRunStatus(schema.RunStatus{Backend: string(schema.NoneBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run history status", err)
		}
		iocache.PrintRunStatus(status)
	},
}

// historyExportCmd exports the run history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet for BI tools and analytics",
	Long: `Export every recorded run to Parquet.

Requires: --output-file parameter. Runs are written to <output-file>.runs.parquet.

Examples:
  trendscope history export --run-backend sqlite --output-file trendscope
  duckdb -c "SELECT start_time, correlation FROM read_parquet('trendscope.runs.parquet')"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunExport(iocache.Manager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the run store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  trendscope history migrate --run-backend sqlite

  # Rollback to initial state
  trendscope history migrate --run-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
