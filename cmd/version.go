package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/greenmetrics/greenmetrics/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the build and the inputs this binary understands.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of greenmetrics.",
	Long: `Display build details together with the analysis exports and
history backends this binary supports.

Useful when a score differs between machines: the category files and
metric groups listed here are the ones the pipeline reads and averages.`,
	Run: func(cmd *cobra.Command, _ []string) {
		writeVersion(cmd.OutOrStdout())
	},
}

// writeVersion renders the version report.
func writeVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "greenmetrics %s (commit %s, built %s, %s)\n", version, commit, date, runtime.Version())

	_, _ = fmt.Fprintln(w, "Category files:")
	for _, c := range schema.DefaultCategories() {
		_, _ = fmt.Fprintf(w, "  <system>%s (%d fields)\n", c.FileSuffix, len(c.Fields))
	}

	names := make([]string, 0, len(schema.AllGroupNames))
	for _, g := range schema.AllGroupNames {
		names = append(names, string(g))
	}
	_, _ = fmt.Fprintf(w, "Metric groups: %s\n", strings.Join(names, ", "))

	_, _ = fmt.Fprintf(w, "History backends: %s (default), %s, %s, %s\n",
		schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend, schema.NoneBackend)
}
