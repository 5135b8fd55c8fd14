package runstore

import (
	"errors"
	"fmt"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/internal/parquet"
)

// ExportHistory writes the runs and system scores of a store to two Parquet
// files derived from outputFile.
func ExportHistory(store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	contract.LogInfo("📦 Exporting history from %s backend (%d runs, %d score rows)",
		status.Backend, status.TotalRuns, status.TableSizes[systemScoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := store.GetAllScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve system scores: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	contract.LogInfo("💾 Exported %d runs to %s", len(runs), runsFile)

	scoresFile := outputFile + ".system_scores.parquet"
	if err := parquet.WriteSystemScoresParquet(parquet.ConvertRunScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write system scores: %w", err)
	}
	contract.LogInfo("💾 Exported %d score rows to %s", len(scores), scoresFile)
	return nil
}

// ExecuteHistoryExport exports the history of the global manager.
func ExecuteHistoryExport(outputFile string) error {
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("run history is not initialized")
	}
	return ExportHistory(store, outputFile)
}
