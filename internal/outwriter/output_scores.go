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

// PrintScoreResults writes the score report to the configured output file or stdout.
func PrintScoreResults(sets []schema.ScoreSet, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteScoreResults(w, sets, cfg, duration)
	}, successMessage("scores", cfg))
}

// WriteScoreResults outputs score sets, dispatching based on the output format configured.
func WriteScoreResults(w io.Writer, sets []schema.ScoreSet, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONScores(w, sets); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVScores(w, sets, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(w, parquet.ConvertScoreSets(sets, contract.GetPlainLabel)); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeScoreTable(w, sets, cfg, fmtFloat, duration)
	}
	return nil
}

// writeScoreTable generates and writes the human-readable table.
func writeScoreTable(w io.Writer, sets []schema.ScoreSet, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"System", "Volume (PM)", "Maint", "Measure", "Fresh", "Reliab", "Green", "Label"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, 70)
	var data [][]string
	for _, s := range sets {
		data = append(data, []string{
			contract.TruncateName(s.System, nameWidth),
			s.VolumePM,
			fmtFloat(s.Maintainability),
			fmtFloat(s.Measurability),
			fmtFloat(s.Freshness),
			fmtFloat(s.Reliability),
			fmtFloat(s.Greenability),
			scoreLabel(s.Greenability, cfg),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	total := 0.0
	for _, s := range sets {
		total += s.Greenability
	}
	mean := 0.0
	if len(sets) > 0 {
		mean = total / float64(len(sets))
	}
	if _, err := fmt.Fprintf(w, "Scored %d systems (mean greenability: %s)\n", len(sets), fmtFloat(mean)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Scoring completed in %v. History backend: %s\n", duration, cfg.HistoryBackend)
	return err
}

// writeCSVScores writes the score sets with labels in CSV format.
func writeCSVScores(w io.Writer, sets []schema.ScoreSet, fmtFloat func(float64) string) error {
	header := []string{"system", "volume_pm", "maintainability", "measurability", "freshness", "reliability", "greenability", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range sets {
			rec := []string{
				s.System,
				s.VolumePM,
				fmtFloat(s.Maintainability),
				fmtFloat(s.Measurability),
				fmtFloat(s.Freshness),
				fmtFloat(s.Reliability),
				fmtFloat(s.Greenability),
				contract.GetPlainLabel(s.Greenability),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONScores writes the score sets with labels in JSON format.
func writeJSONScores(w io.Writer, sets []schema.ScoreSet) error {
	type JSONScoreSet struct {
		Label string `json:"label"`
		schema.ScoreSet
	}

	output := make([]JSONScoreSet, len(sets))
	for i, s := range sets {
		output[i] = JSONScoreSet{
			Label:    contract.GetPlainLabel(s.Greenability),
			ScoreSet: s,
		}
	}
	return writeJSON(w, output)
}
