package cmd

import (
	"github.com/greenmetrics/greenmetrics/core"
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/spf13/cobra"
)

// combineCmd merges per-system metric tables into one wide table.
var combineCmd = &cobra.Command{
	Use:   "combine [root]",
	Short: "Merge per-system metric tables into one wide CSV.",
	Long: `Join the metric tables of the selected systems on metric name. The first
system seeds the rows, every later system adds the metrics it introduces, and
cells a system does not report stay empty. Systems without a table are skipped.

Examples:
  # Merge every flattened system under the current directory
  greenmetrics combine

  # Merge three systems in a fixed column order
  greenmetrics combine --systems cbeanutils,cconfiguration,ccsv

  # Merge tables that carry a header row
  greenmetrics combine --combine-path 'tables/{system}.csv' --combine-header`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCombine(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot combine systems", err)
		}
	},
}
