package cmd

import (
	"github.com/greenmetrics/greenmetrics/core"
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/spf13/cobra"
)

// flattenCmd writes the flattened metric table of every system.
var flattenCmd = &cobra.Command{
	Use:   "flatten [root]",
	Short: "Flatten the analysis exports of every system into metric tables.",
	Long: `Read the category exports of each system directory under the root and write
one two-column metric,value table per system to <system>/<system>.csv.

Each system directory may hold these category files:
- <system>_maintainability.json
- <system>_internal_reliability-findings.json
- <system>_architecture-quality.json
- <system>_internal_osh-findings.json

Configured metrics that a present file lacks are written as NA. Categories
without a file are left out; a missing open-source-health file is reported.

Examples:
  # Flatten every system under the current directory
  greenmetrics flatten

  # Flatten a download folder, skipping a scratch directory
  greenmetrics flatten ~/uploads/sahin --exclude scratch`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFlatten(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot flatten systems", err)
		}
	},
}
