package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/internal/parquet"
	"github.com/greenmetrics/greenmetrics/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintCombinedResults writes the combined table report to the configured output file or stdout.
func PrintCombinedResults(table schema.CombinedTable, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCombinedResults(w, table, cfg, duration)
	}, successMessage("combined table", cfg))
}

// WriteCombinedResults outputs the combined table, dispatching based on the output format configured.
// Parquet output unpivots the table into (metric, system, value) cells.
func WriteCombinedResults(w io.Writer, table schema.CombinedTable, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, table); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVWithHeader(w, table.Header(), func(cw *csv.Writer) error {
			return writeCombinedRows(cw, table)
		}); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(w, parquet.ConvertCombinedTable(table)); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeCombinedTable(w, table, duration)
	}
	return nil
}

// writeCombinedTable generates and writes the human-readable table.
func writeCombinedTable(w io.Writer, table schema.CombinedTable, duration time.Duration) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Header(table.Header())
	tbl.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	if err := tbl.Bulk(table.Rows); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Merged %d metrics across %d systems in %v\n", len(table.Rows), len(table.Systems), duration)
	return err
}
