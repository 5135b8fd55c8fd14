package cmd

import (
	"github.com/greenmetrics/greenmetrics/core"
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd runs flatten, scores and combine in one tracked run.
var runCmd = &cobra.Command{
	Use:   "run [root]",
	Short: "Flatten, score and merge every system in one go.",
	Long: `Run the whole aggregation pipeline: flatten the analysis exports, score the
flattened systems and merge their tables. The steps are recorded as a single
run in the history store.

Examples:
  # Process the current directory
  greenmetrics run

  # Process a folder and keep the history in PostgreSQL
  greenmetrics run ~/uploads/sahin --history-backend postgresql`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The merge flags are declared on combine as well, so bind the ones of this command.
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRun(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run pipeline", err)
		}
	},
}
