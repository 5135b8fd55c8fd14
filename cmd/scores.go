package cmd

import (
	"github.com/greenmetrics/greenmetrics/core"
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/spf13/cobra"
)

// scoresCmd scores every flattened system.
var scoresCmd = &cobra.Command{
	Use:   "scores [root]",
	Short: "Score every flattened system by metric group.",
	Long: `Read the flattened metric table of each system and compute one score per
metric group plus the greenability score, the plain mean of the group scores.

A group score is the mean of the group's metrics that the system reports with
a value other than NA, or 0 when it reports none. The scores are written to
<root>/greenability_scores.csv and recorded in the run history.

Examples:
  # Score the systems flattened under the current directory
  greenmetrics scores

  # Export the report as JSON
  greenmetrics scores --output json --output-file scores.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScores(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot score systems", err)
		}
	},
}
