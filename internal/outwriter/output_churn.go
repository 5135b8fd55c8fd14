package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/internal/parquet"
	"github.com/greenmetrics/greenmetrics/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintChurnResults writes the churn report to the configured output file or stdout.
func PrintChurnResults(rows []schema.ChurnRow, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteChurnResults(w, rows, cfg, duration)
	}, successMessage("churn", cfg))
}

// WriteChurnResults outputs averaged churn rows, dispatching based on the output format configured.
func WriteChurnResults(w io.Writer, rows []schema.ChurnRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, rows); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVChurn(w, rows, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(w, parquet.ConvertChurnRows(rows)); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeChurnTable(w, rows, cfg, fmtFloat, duration)
	}
	return nil
}

// writeChurnTable generates and writes the human-readable table.
func writeChurnTable(w io.Writer, rows []schema.ChurnRow, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"System", "Refactoring", "Count", "Avg Files", "Avg Months", "Avg LOC"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, 75)
	var data [][]string
	systems := make(map[string]struct{})
	for _, r := range rows {
		systems[r.System] = struct{}{}
		data = append(data, []string{
			contract.TruncateName(r.System, nameWidth),
			r.Refactoring,
			strconv.Itoa(r.Occurrences),
			fmtFloat(r.AvgNewFiles),
			fmtFloat(r.AvgNewMonths),
			fmtFloat(r.AvgNewLoc),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Averaged %d rows over %d systems in %v\n", len(rows), len(systems), duration)
	return err
}

// writeCSVChurn writes the averaged churn rows in CSV format.
func writeCSVChurn(w io.Writer, rows []schema.ChurnRow, fmtFloat func(float64) string) error {
	header := []string{"system", "refactoring", "occurrences", "avg_total_new_files", "avg_total_new_volume_in_months", "avg_total_new_volume_in_loc"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.System,
				r.Refactoring,
				strconv.Itoa(r.Occurrences),
				fmtFloat(r.AvgNewFiles),
				fmtFloat(r.AvgNewMonths),
				fmtFloat(r.AvgNewLoc),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
