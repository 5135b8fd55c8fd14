package cmd

import (
	"github.com/greenmetrics/greenmetrics/core"
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/spf13/cobra"
)

// churnCmd averages refactoring churn per system.
var churnCmd = &cobra.Command{
	Use:   "churn [root]",
	Short: "Average the churn of refactoring runs per system.",
	Long: `Collect the <system>-<refactoring>-<number>.json documents of every system into
<system>/churn-<system>.csv, then average them per system and refactoring
into <root>/churn.csv.

Empty or invalid documents count as a run without churn. An extractvariable
run that produced no new files is not counted as an occurrence.

Examples:
  # Average churn under the current directory
  greenmetrics churn

  # Report rename and inline for every system, even when never observed
  greenmetrics churn ~/uploads/churn --refactorings rename,inline`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChurn(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot average churn", err)
		}
	},
}
