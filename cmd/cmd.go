// Package cmd defines the command-line interface for greenmetrics.
package cmd

import (
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(churnCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of directory names under the root that are not systems")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write the report to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric report columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "auto", "Enable colored labels in output (yes/no/true/false/1/0/auto)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind the merge flags shared by combine and run to Viper
	for _, c := range []*cobra.Command{combineCmd, runCmd} {
		c.Flags().StringSlice("systems", nil, "Systems to merge, in column order (defaults to every system under the root)")
		c.Flags().String("combine-path", schema.DefaultCombinePath, "Per-system table path template containing {system}")
		c.Flags().Bool("combine-header", false, "Per-system tables start with a header row")
		c.Flags().String("combine-output", "", "Path of the merged CSV (defaults to <root>/"+schema.CombinedFileName+")")
	}
	if err := viper.BindPFlags(combineCmd.Flags()); err != nil {
		contract.LogFatal("Error binding combine flags", err)
	}

	// Bind all flags of churnCmd to Viper
	churnCmd.Flags().StringSlice("refactorings", nil, "Refactoring types reported for every system, even when unobserved")
	if err := viper.BindPFlags(churnCmd.Flags()); err != nil {
		contract.LogFatal("Error binding churn flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
