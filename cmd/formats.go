package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mfofanah/dhistat/core"
	"github.com/mfofanah/dhistat/internal/contract"
)

// formatsCmd displays the supported period label formats.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported period label formats with examples.",
	Long: `Display every period label format the normalizer recognizes,
together with an example label for each.

Formats are tried in the order shown; the first matching format wins.
Use this to check whether an export's period labels will resolve before
running the pipeline.

Examples:
  # Show formats as a table
  dhistat formats

  # Machine readable list
  dhistat formats --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFormats(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list formats", err)
		}
	},
}
