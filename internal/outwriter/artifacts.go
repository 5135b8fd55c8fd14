package outwriter

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/greenmetrics/greenmetrics/schema"
)

// writeArtifact truncates path and writes one CSV artifact to it.
func writeArtifact(path string, header []string, writeRows func(*csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writeCSVWithHeader(file, header, writeRows); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// WriteSystemTable writes the flattened `metric,value` table of a system, without header.
func WriteSystemTable(path string, record schema.MetricRecord) error {
	return writeArtifact(path, nil, func(w *csv.Writer) error {
		for _, e := range record {
			if err := w.Write([]string{e.Name, e.Value}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteScoresCSV writes the combined scores CSV, one row per system.
func WriteScoresCSV(path string, sets []schema.ScoreSet) error {
	return writeArtifact(path, schema.ScoresHeader, func(w *csv.Writer) error {
		for _, s := range sets {
			rec := []string{
				s.System,
				s.VolumePM,
				schema.FormatNumber(s.Maintainability),
				schema.FormatNumber(s.Measurability),
				schema.FormatNumber(s.Freshness),
				schema.FormatNumber(s.Reliability),
				schema.FormatNumber(s.Greenability),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSystemChurnCSV writes the per-system churn observations.
func WriteSystemChurnCSV(path string, observations []schema.ChurnObservation) error {
	return writeArtifact(path, schema.ChurnSystemHeader, func(w *csv.Writer) error {
		for _, o := range observations {
			if err := w.Write(o.Record()); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteChurnCSV writes the averaged churn rows of every system.
func WriteChurnCSV(path string, rows []schema.ChurnRow) error {
	return writeArtifact(path, schema.ChurnHeader, func(w *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.System,
				r.Refactoring,
				schema.FormatNumber(r.AvgNewFiles),
				schema.FormatNumber(r.AvgNewMonths),
				schema.FormatNumber(r.AvgNewLoc),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteCombinedCSV writes the merged wide table.
func WriteCombinedCSV(path string, table schema.CombinedTable) error {
	return writeArtifact(path, table.Header(), func(w *csv.Writer) error {
		return writeCombinedRows(w, table)
	})
}

// writeCombinedRows writes the rows of a combined table.
func writeCombinedRows(w *csv.Writer, table schema.CombinedTable) error {
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
