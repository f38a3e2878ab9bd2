package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mfofanah/dhistat/core"
	"github.com/mfofanah/dhistat/internal/contract"
)

// aggregateCmd rolls facility metrics up the administrative hierarchy.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate <input-file>",
	Short: "Aggregate facility metrics over the administrative hierarchy.",
	Long: `Normalize a facility CSV file and sum its numeric metrics for each
selected administrative level, grouped by location and reporting month.

Levels extend each other one administrative column at a time, from region
(adm1) down to individual health facilities (hf). A level whose grouping
columns are missing from the input is skipped with a warning rather than
failing the whole run. Null metric cells are skipped during summation, so
a facility that reported nothing does not pull sums to zero.

Examples:
  # Aggregate to all available levels
  dhistat aggregate facility.csv

  # District-level monthly totals only
  dhistat aggregate facility.csv --levels adm2

  # Per-level CSV files (out_adm1.csv, out_adm2.csv, ...)
  dhistat aggregate facility.csv --output csv --output-file out.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAggregate(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run aggregation", err)
		}
	},
}
