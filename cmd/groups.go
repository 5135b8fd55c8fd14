package cmd

import (
	"github.com/greenmetrics/greenmetrics/core"
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/spf13/cobra"
)

// groupsCmd prints the active metric groups.
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Show the metric groups that make up the greenability score.",
	Long: `Print every metric group and the metrics averaged into it.

Groups can be overridden in .greenmetrics.yaml:

  groups:
    reliability:
      - reliability
      - Activity Risk`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGroups(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot print groups", err)
		}
	},
}
