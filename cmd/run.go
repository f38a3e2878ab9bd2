package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mfofanah/dhistat/core"
	"github.com/mfofanah/dhistat/internal/contract"
	"github.com/mfofanah/dhistat/internal/iostore"
)

// runCmd performs the full normalize-and-aggregate pipeline.
var runCmd = &cobra.Command{
	Use:   "run <input-file>",
	Short: "Run the full pipeline: normalize, aggregate and persist.",
	Long: `Run normalization and aggregation in one pass and, when a results
store is configured, persist the run metadata and every aggregated value.

Persisted runs record the input file, row counts and resolution statistics,
and each aggregated value is stored in long format with its grouping key
tuple. Use 'dhistat store' subcommands to inspect or export stored runs.

Examples:
  # Full pipeline without persistence
  dhistat run facility.csv

  # Persist results in the default SQLite store
  dhistat run facility.csv --store-backend sqlite

  # Persist to PostgreSQL (use env var for credentials)
  DHISTAT_STORE_DB_CONNECT="host=db dbname=dhis" dhistat run facility.csv --store-backend postgresql`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRun(rootCtx, cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot run pipeline", err)
		}
	},
}
