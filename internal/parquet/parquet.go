// Package parquet provides data structures and functions for exporting greenmetrics
// scores, churn averages and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/greenmetrics/greenmetrics/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single greenmetrics run with metadata.
// This struct maps to the greenmetrics_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Command is the CLI command that started the run
	Command string `parquet:"command,snappy"`

	// RootDir is the analyzed root directory
	RootDir string `parquet:"root_dir,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// TotalSystems is the number of systems scored in this run
	TotalSystems int32 `parquet:"total_systems,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SystemScores represents the score set of one system.
// This struct maps to the greenmetrics_system_scores database table and to
// the rows of the scores report.
type SystemScores struct {
	RunID           int64   `parquet:"run_id,snappy"`
	System          string  `parquet:"system,snappy"`
	VolumePM        string  `parquet:"volume_pm,snappy"`
	Maintainability float64 `parquet:"maintainability,snappy"`
	Measurability   float64 `parquet:"measurability,snappy"`
	Freshness       float64 `parquet:"freshness,snappy"`
	Reliability     float64 `parquet:"reliability,snappy"`
	Greenability    float64 `parquet:"greenability,snappy"`
	ScoreLabel      string  `parquet:"score_label,snappy"`
}

// ChurnAverage represents one averaged (system, refactoring) row of the churn report.
type ChurnAverage struct {
	System       string  `parquet:"system,snappy"`
	Refactoring  string  `parquet:"refactoring,snappy"`
	Occurrences  int32   `parquet:"occurrences,snappy"`
	AvgNewFiles  float64 `parquet:"avg_total_new_files,snappy"`
	AvgNewMonths float64 `parquet:"avg_total_new_volume_in_months,snappy"`
	AvgNewLoc    float64 `parquet:"avg_total_new_volume_in_loc,snappy"`
}

// CombinedCell is one non-empty cell of the combined wide table in long form.
type CombinedCell struct {
	Metric string `parquet:"metric,snappy"`
	System string `parquet:"system,snappy"`
	Value  string `parquet:"value,snappy"`
}

// GroupMember is one metric of a metric group.
type GroupMember struct {
	Group  string `parquet:"group,snappy"`
	Metric string `parquet:"metric,snappy"`
}

// WriteRows writes rows to w, inferring the schema from the struct tags of T.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return WriteRows(file, rows)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteSystemScoresParquet writes a slice of SystemScores structs to a Parquet file.
func WriteSystemScoresParquet(data []SystemScores, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			Command:       record.Command,
			RootDir:       record.RootDir,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalSystems:  int32(record.TotalSystems),
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRunScoreRecords converts schema.RunScoreRecord to SystemScores for Parquet export.
func ConvertRunScoreRecords(records []schema.RunScoreRecord) []SystemScores {
	result := make([]SystemScores, len(records))
	for i, r := range records {
		result[i] = SystemScores{
			RunID:           r.RunID,
			System:          r.System,
			VolumePM:        r.VolumePM,
			Maintainability: r.Maintainability,
			Measurability:   r.Measurability,
			Freshness:       r.Freshness,
			Reliability:     r.Reliability,
			Greenability:    r.Greenability,
			ScoreLabel:      r.ScoreLabel,
		}
	}
	return result
}

// ConvertScoreSets converts report score sets into SystemScores rows without a run.
func ConvertScoreSets(sets []schema.ScoreSet, label func(float64) string) []SystemScores {
	result := make([]SystemScores, len(sets))
	for i, s := range sets {
		result[i] = SystemScores{
			System:          s.System,
			VolumePM:        s.VolumePM,
			Maintainability: s.Maintainability,
			Measurability:   s.Measurability,
			Freshness:       s.Freshness,
			Reliability:     s.Reliability,
			Greenability:    s.Greenability,
			ScoreLabel:      label(s.Greenability),
		}
	}
	return result
}

// ConvertChurnRows converts averaged churn rows for Parquet export.
func ConvertChurnRows(rows []schema.ChurnRow) []ChurnAverage {
	result := make([]ChurnAverage, len(rows))
	for i, r := range rows {
		result[i] = ChurnAverage{
			System:       r.System,
			Refactoring:  r.Refactoring,
			Occurrences:  int32(r.Occurrences),
			AvgNewFiles:  r.AvgNewFiles,
			AvgNewMonths: r.AvgNewMonths,
			AvgNewLoc:    r.AvgNewLoc,
		}
	}
	return result
}

// ConvertCombinedTable unpivots a combined table into cells, skipping empty ones.
func ConvertCombinedTable(table schema.CombinedTable) []CombinedCell {
	var result []CombinedCell
	for _, row := range table.Rows {
		for j, system := range table.Systems {
			if j+1 >= len(row) || row[j+1] == "" {
				continue
			}
			result = append(result, CombinedCell{Metric: row[0], System: system, Value: row[j+1]})
		}
	}
	return result
}

// ConvertMetricGroups flattens metric groups into one row per member.
func ConvertMetricGroups(groups []schema.MetricGroup) []GroupMember {
	var result []GroupMember
	for _, g := range groups {
		for _, m := range g.Metrics {
			result = append(result, GroupMember{Group: string(g.Name), Metric: m})
		}
	}
	return result
}
