package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/internal/outwriter"
	"github.com/greenmetrics/greenmetrics/schema"
)

// listSystems returns the systems under the configured root, failing when there are none.
func listSystems(cfg *contract.Config) ([]string, error) {
	systems, err := ListSystems(cfg.RootDir, cfg.ExcludedDirs)
	if err != nil {
		return nil, err
	}
	if len(systems) == 0 {
		return nil, fmt.Errorf("%w under %s", schema.ErrNoSystems, cfg.RootDir)
	}
	return systems, nil
}

// FlattenSystems flattens every system in order. When write is set, each
// system table is written next to its category files before the next system
// is read. Systems without any category file get no table and no row.
func FlattenSystems(cfg *contract.Config, systems []string, write bool) ([]schema.SystemRow, error) {
	categories := schema.DefaultCategories()
	rows := make([]schema.SystemRow, 0, len(systems))
	for _, system := range systems {
		row, err := FlattenSystem(cfg.RootDir, system, categories)
		if err != nil {
			return nil, fmt.Errorf("failed to flatten %s: %w", system, err)
		}
		if len(row.Records) == 0 {
			contract.LogWarn(fmt.Sprintf("Skipping system %s", system), errors.New("no category files"))
			continue
		}
		if write {
			if err := outwriter.WriteSystemTable(schema.SystemTablePath(cfg.RootDir, system), row.Flatten()); err != nil {
				return nil, err
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ScoreRows scores flattened rows held in memory.
func ScoreRows(rows []schema.SystemRow, groups schema.MetricGroups) ([]schema.ScoreSet, error) {
	sets := make([]schema.ScoreSet, 0, len(rows))
	for _, row := range rows {
		set, err := ComputeScoreSet(row.DisplayName, row.VolumePM, row.Flatten(), groups)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// ScoreFlattenedSystems scores each system from its written system table.
// Systems that were never flattened or whose table is empty are skipped with a warning.
func ScoreFlattenedSystems(cfg *contract.Config, systems []string) ([]schema.ScoreSet, error) {
	categories := schema.DefaultCategories()
	sets := make([]schema.ScoreSet, 0, len(systems))
	for _, system := range systems {
		record, err := ReadSystemTable(schema.SystemTablePath(cfg.RootDir, system), false)
		if errors.Is(err, os.ErrNotExist) {
			contract.LogWarn(fmt.Sprintf("Skipping system %s without a flattened table", system), err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read table of %s: %w", system, err)
		}
		if len(record) == 0 {
			contract.LogWarn(fmt.Sprintf("Skipping system %s", system), errors.New("empty flattened table"))
			continue
		}
		volume, err := SystemVolume(cfg.RootDir, system, categories)
		if err != nil {
			return nil, err
		}
		set, err := ComputeScoreSet(schema.DisplayName(system), volume, record, cfg.Groups)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// CollectSystemChurn reads the refactoring documents of one system in file name order.
// Category files are ignored. Other JSON files that do not follow the refactoring
// naming scheme are skipped with a warning.
func CollectSystemChurn(root, system string) ([]schema.ChurnObservation, error) {
	dir := filepath.Join(root, system)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	categoryFiles := make(map[string]bool)
	for _, c := range schema.DefaultCategories() {
		categoryFiles[c.FileName(system)] = true
	}
	var out []schema.ChurnObservation
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || categoryFiles[e.Name()] {
			continue
		}
		refactoring, number, err := ParseRefactoringFileName(system, e.Name())
		if err != nil {
			contract.LogWarn("Skipping refactoring file", err)
			continue
		}
		doc, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		out = append(out, ParseChurnDocument(system, refactoring, number, doc))
	}
	return out, nil
}

// ChurnLoader returns the observations of a system. An os.ErrNotExist error
// leaves the system out of the average.
type ChurnLoader func(system string) ([]schema.ChurnObservation, error)

// AverageChurn averages the observations of every system in order.
func AverageChurn(systems, refactorings []string, load ChurnLoader) ([]schema.ChurnRow, error) {
	avg := NewChurnAverager(refactorings)
	for _, system := range systems {
		observations, err := load(system)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		avg.AddSystem(system)
		for _, obs := range observations {
			if err := avg.Observe(obs); err != nil {
				return nil, fmt.Errorf("failed to average churn of %s: %w", system, err)
			}
		}
	}
	return avg.Rows(), nil
}

// CombineSystems merges the metric tables of systems found through the combine path template.
func CombineSystems(cfg *contract.Config, systems []string) schema.CombinedTable {
	load := func(system string) (schema.MetricRecord, error) {
		return ReadSystemTable(schema.ExpandSystemPath(cfg.RootDir, cfg.CombinePath, system), cfg.CombineHeader)
	}
	return MergeSystems(systems, load, func(system string, err error) {
		contract.LogWarn(fmt.Sprintf("Skipping system %s in combine", system), err)
	})
}

// combineTargets returns the configured systems, or every system under the root.
func combineTargets(cfg *contract.Config) ([]string, error) {
	if len(cfg.Systems) > 0 {
		return cfg.Systems, nil
	}
	return listSystems(cfg)
}
