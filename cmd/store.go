package cmd

import (
	"fmt"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/store"
	"github.com/huangsam/retention/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeBackendFromViper reads and validates the store settings without full config processing.
func storeBackendFromViper() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = contract.DefaultStoreBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid store-backend '%s'. must be sqlite, mysql, postgresql or none", backend)
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackendFromViper()
	if err != nil {
		return err
	}
	if err := store.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeMigrateSetup is storeSetup without opening the store, so that
// migrations can run against a fresh database.
func storeMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackendFromViper()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeCmd focused on batch store management.
//
// Note: store subcommands use minimal initialization instead of the full
// sharedSetup. Weight tables and output settings are irrelevant here.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the batch store and its history",
	Long: `Manage the store that keeps the current batch, intervention statuses
and the snapshot history of previous uploads.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show store statistics and connection info
  export  - Export data to Parquet for analytics
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  # Check store status
  retention store status

  # Export for analysis in pandas/DuckDB
  retention store export --output-file retention`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the batch store.

Displays:
- Backend type and connection status
- Number of stored batch snapshots
- Last and oldest upload timestamps
- Employee count of the current batch

Examples:
  retention store status
  retention store status --store-backend mysql --store-db-connect "user:pass@tcp(localhost:3306)/hr"`,
	PreRunE: storeSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		status, err := storeManager.GetBatchStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStatus(cmd.OutOrStdout(), status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored batches and history",
	Long: `Delete the current batch, intervention statuses and every snapshot.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  retention store export --output-file backup
  retention store clear`,
	PreRunE: storeMigrateSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := store.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		cmd.Println("Store cleared successfully.")
	},
}

// storeExportCmd exports stored data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current batch and history to Parquet",
	Long: `Export the scored employees of the current batch and the snapshot
history to Parquet for use with analytics tools.

Requires: --output-file parameter

Examples:
  # Writes retention.employees.parquet, retention.interventions.parquet
  # and retention.batches.parquet
  retention store export --output-file retention

  # Query with DuckDB
  duckdb -c "SELECT * FROM read_parquet('retention.employees.parquet') LIMIT 10"`,
	PreRunE: storeSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := store.ExecuteExport(rootCtx, cmd.OutOrStdout(), storeManager.GetBatchStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the batch store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the batch store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  retention store migrate

  # Rollback to the initial state
  retention store migrate --target-version 0`,
	PreRunE: storeMigrateSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.Migrate(cmd.OutOrStdout(), cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
