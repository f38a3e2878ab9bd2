package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mfofanah/dhistat/internal/contract"
	"github.com/mfofanah/dhistat/internal/iostore"
	"github.com/mfofanah/dhistat/schema"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as the SQLite default so plain
	// 'dhistat store status' inspects the local store.
	var backend schema.DatabaseBackend
	if backendStr == "" || backendStr == string(schema.NoneBackend) {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = outputFile

	// Initialize the store with the loaded config
	if err := iostore.InitStore(cfg); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" || backendStr == string(schema.NoneBackend) {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on results store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by pipeline commands. This avoids input file
// validation and level parsing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage persisted pipeline runs and aggregated values",
	Long: `Manage the results store that tracks pipeline runs over time.

When enabled, dhistat records every 'run' invocation, storing:
- Run metadata (timestamps, input file, row counts)
- Resolution statistics for trend tracking
- Every aggregated value in long format with its grouping keys

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show store statistics and connection info
  export  - Export data to Parquet for analytics
  clear   - Remove all stored runs and values
  migrate - Run database schema migrations

Examples:
  # Check store status
  dhistat store status

  # Export for analysis in pandas/DuckDB
  dhistat store export --output-file results`,
}

// storeStatusCmd shows results store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the results store.

Displays:
- Backend type and location
- Total number of stored runs and aggregated values
- Timestamp of the most recent run

Examples:
  # Check store status
  dhistat store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iostore.Manager.GetResultsStore()
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(status)
	},
}

// storeClearCmd clears the results store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs and aggregated values",
	Long: `Delete all stored pipeline runs and their aggregated values.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  dhistat store export --output-file backup
  dhistat store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearStore(cfg); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeExportCmd exports store contents to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored runs and values to Parquet for analytics",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Exports two datasets:
- Runs - metadata about each pipeline execution
- Level values - every aggregated value with its grouping key tuple

Requires: --output-file parameter (used as the file name prefix)

Examples:
  # Export all data
  dhistat store export --output-file results

  # Query with DuckDB
  duckdb -c "SELECT * FROM read_parquet('results.level_values.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteStoreExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the results store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the results store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  dhistat store migrate

  # Migrate to specific version
  dhistat store migrate --target-version 1

  # Rollback to initial state
  dhistat store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateResults(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
