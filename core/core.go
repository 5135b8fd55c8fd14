// Package core has core logic for flattening, scoring, averaging and merging.
package core

import (
	"context"
	"path/filepath"
	"time"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/internal/outwriter"
	"github.com/greenmetrics/greenmetrics/schema"
)

// ExecutorFunc defines the function signature for executing the pipeline steps.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteFlatten writes the system table of every system under the root.
// It serves as the main entry point for the 'flatten' mode.
func ExecuteFlatten(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	rows, err := runFlatten(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	contract.LogInfo("✅ Flattened %d systems in %v", len(rows), time.Since(start))
	return nil
}

// ExecuteScores scores every flattened system, writes the scores CSV and prints the report.
// It serves as the main entry point for the 'scores' mode.
func ExecuteScores(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	sets, err := runScores(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintScoreResults(sets, cfg, time.Since(start))
}

// ExecuteChurn writes the per-system churn tables, averages them into the
// combined churn CSV and prints the report.
// It serves as the main entry point for the 'churn' mode.
func ExecuteChurn(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	systems, err := listSystems(cfg)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "churn", len(systems))
	}
	_, finish := beginRun(ctx, mgr, "churn", cfg)

	for _, system := range systems {
		observations, err := CollectSystemChurn(cfg.RootDir, system)
		if err != nil {
			finish(0)
			return err
		}
		if err := outwriter.WriteSystemChurnCSV(schema.SystemChurnPath(cfg.RootDir, system), observations); err != nil {
			finish(0)
			return err
		}
	}

	rows, err := AverageChurn(systems, cfg.Refactorings, func(system string) ([]schema.ChurnObservation, error) {
		return ReadSystemChurn(schema.SystemChurnPath(cfg.RootDir, system))
	})
	if err != nil {
		finish(0)
		return err
	}
	if err := outwriter.WriteChurnCSV(filepath.Join(cfg.RootDir, schema.ChurnFileName), rows); err != nil {
		finish(0)
		return err
	}
	finish(len(systems))
	return outwriter.PrintChurnResults(rows, cfg, time.Since(start))
}

// ExecuteCombine merges the metric tables of the configured systems into one wide CSV.
// It serves as the main entry point for the 'combine' mode.
func ExecuteCombine(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	table, err := runCombine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintCombinedResults(table, cfg, time.Since(start))
}

// ExecuteRun flattens, scores and merges in one tracked run and prints the scores report.
// It serves as the main entry point for the 'run' mode.
func ExecuteRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	systems, err := listSystems(cfg)
	if err != nil {
		return err
	}
	outwriter.LogRunHeader(cfg, "run", len(systems))
	ctx = withSuppressHeader(ctx)
	ctx, finish := beginRun(ctx, mgr, "run", cfg)

	if _, err := runFlatten(ctx, cfg, mgr); err != nil {
		finish(0)
		return err
	}
	sets, err := runScores(ctx, cfg, mgr)
	if err != nil {
		finish(0)
		return err
	}
	table, err := runCombine(ctx, cfg, mgr)
	if err != nil {
		finish(len(sets))
		return err
	}
	finish(len(sets))
	contract.LogInfo("🧩 Merged %d metrics across %d systems into %s", len(table.Rows), len(table.Systems), cfg.CombineOutput)
	return outwriter.PrintScoreResults(sets, cfg, time.Since(start))
}

// ExecuteGroups prints the active metric groups.
// It serves as the main entry point for the 'groups' mode.
func ExecuteGroups(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.PrintGroups(cfg.Groups.Groups(), cfg)
}

// runFlatten flattens every system and writes the system tables.
func runFlatten(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.SystemRow, error) {
	systems, err := listSystems(cfg)
	if err != nil {
		return nil, err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "flatten", len(systems))
	}
	_, finish := beginRun(ctx, mgr, "flatten", cfg)
	rows, err := FlattenSystems(cfg, systems, true)
	if err != nil {
		finish(0)
		return nil, err
	}
	finish(len(rows))
	return rows, nil
}

// runScores scores the flattened systems, writes the scores CSV and records the scores.
func runScores(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.ScoreSet, error) {
	systems, err := listSystems(cfg)
	if err != nil {
		return nil, err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "scores", len(systems))
	}
	ctx, finish := beginRun(ctx, mgr, "scores", cfg)
	sets, err := ScoreFlattenedSystems(cfg, systems)
	if err != nil {
		finish(0)
		return nil, err
	}
	if err := outwriter.WriteScoresCSV(filepath.Join(cfg.RootDir, schema.ScoresFileName), sets); err != nil {
		finish(0)
		return nil, err
	}
	recordScores(ctx, mgr, sets)
	finish(len(sets))
	return sets, nil
}

// runCombine merges the configured systems and writes the combined CSV.
func runCombine(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.CombinedTable, error) {
	systems, err := combineTargets(cfg)
	if err != nil {
		return schema.CombinedTable{}, err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "combine", len(systems))
	}
	_, finish := beginRun(ctx, mgr, "combine", cfg)
	table := CombineSystems(cfg, systems)
	if err := outwriter.WriteCombinedCSV(cfg.CombineOutput, table); err != nil {
		finish(0)
		return table, err
	}
	finish(len(table.Systems))
	return table, nil
}

// GetScoreResults flattens and scores every system in memory without writing
// any file. It backs the MCP get_scores tool.
func GetScoreResults(_ context.Context, cfg *contract.Config) ([]schema.ScoreSet, error) {
	systems, err := listSystems(cfg)
	if err != nil {
		return nil, err
	}
	rows, err := FlattenSystems(cfg, systems, false)
	if err != nil {
		return nil, err
	}
	return ScoreRows(rows, cfg.Groups)
}

// GetChurnResults averages the refactoring documents of every system in memory
// without writing any file. It backs the MCP get_churn tool.
func GetChurnResults(_ context.Context, cfg *contract.Config) ([]schema.ChurnRow, error) {
	systems, err := listSystems(cfg)
	if err != nil {
		return nil, err
	}
	return AverageChurn(systems, cfg.Refactorings, func(system string) ([]schema.ChurnObservation, error) {
		return CollectSystemChurn(cfg.RootDir, system)
	})
}

// GetCombinedResults merges the configured systems in memory without writing
// any file. It backs the MCP combine_systems tool.
func GetCombinedResults(_ context.Context, cfg *contract.Config) (schema.CombinedTable, error) {
	systems, err := combineTargets(cfg)
	if err != nil {
		return schema.CombinedTable{}, err
	}
	return CombineSystems(cfg, systems), nil
}
