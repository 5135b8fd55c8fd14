package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/internal/parquet"
	"github.com/greenmetrics/greenmetrics/schema"

	"github.com/olekukonko/tablewriter"
)

// PrintGroups writes the metric group definitions to the configured output file or stdout.
func PrintGroups(groups []schema.MetricGroup, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteGroups(w, groups, cfg)
	}, successMessage("groups", cfg))
}

// WriteGroups outputs the metric groups, dispatching based on the output format configured.
func WriteGroups(w io.Writer, groups []schema.MetricGroup, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, groups)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"group", "metric"}, func(cw *csv.Writer) error {
			for _, m := range parquet.ConvertMetricGroups(groups) {
				if err := cw.Write([]string{m.Group, m.Metric}); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
			return nil
		})
	case schema.ParquetOut:
		return writeParquet(w, parquet.ConvertMetricGroups(groups))
	default:
		return writeGroupsTable(w, groups)
	}
}

// writeGroupsTable lists each group with its metrics.
func writeGroupsTable(w io.Writer, groups []schema.MetricGroup) error {
	if _, err := fmt.Fprintln(w, "🌱 Greenability = mean of the group scores below"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Group", "Count", "Metrics"})
	var data [][]string
	for _, g := range groups {
		data = append(data, []string{string(g.Name), strconv.Itoa(len(g.Metrics)), strings.Join(g.Metrics, ", ")})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
