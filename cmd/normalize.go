package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mfofanah/dhistat/core"
	"github.com/mfofanah/dhistat/internal/contract"
)

// normalizeCmd resolves period labels for a facility dataset.
var normalizeCmd = &cobra.Command{
	Use:   "normalize <input-file>",
	Short: "Resolve period labels and print the extended dataset.",
	Long: `Resolve every reporting period label in a facility CSV file to a
calendar year and month, and print the dataset extended with the derived
month, year and year_month columns.

Labels arrive in many shapes: month names with years, numeric month/year
pairs, ISO-style dashes, or compact six-digit codes. Each label is checked
against the supported formats in order; labels matching no format keep the
row but leave the derived columns empty.

Examples:
  # Inspect resolution quality on the console
  dhistat normalize facility.csv

  # Write the normalized dataset to CSV for downstream tools
  dhistat normalize facility.csv --output csv --output-file normalized.csv

  # The period column has a custom name
  dhistat normalize facility.csv --period-column reporting_period`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteNormalize(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run normalization", err)
		}
	},
}
