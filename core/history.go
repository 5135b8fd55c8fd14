package core

import (
	"context"
	"fmt"
	"time"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/schema"
)

// runFinisher completes a tracked run with the number of systems it covered.
type runFinisher func(totalSystems int)

// beginRun starts run tracking for a command. When the context already carries
// a run, the enclosing command owns it and the returned finisher does nothing.
// Tracking failures never stop the pipeline.
func beginRun(ctx context.Context, mgr contract.StoreManager, command string, cfg *contract.Config) (context.Context, runFinisher) {
	noop := func(int) {}
	if runIDFromContext(ctx) != 0 || mgr == nil {
		return ctx, noop
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return ctx, noop
	}

	runID, err := store.BeginRun(command, cfg.RootDir, time.Now(), cfg.ConfigParams())
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx, noop
	}
	if runID <= 0 {
		return ctx, noop
	}
	return withRunID(ctx, runID), func(totalSystems int) {
		if err := store.EndRun(runID, time.Now(), totalSystems); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}
}

// recordScores stores the score sets under the run carried by the context.
func recordScores(ctx context.Context, mgr contract.StoreManager, sets []schema.ScoreSet) {
	runID := runIDFromContext(ctx)
	if runID == 0 || mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}
	for _, set := range sets {
		if err := store.RecordScores(runID, set, contract.GetPlainLabel(set.Greenability)); err != nil {
			logTrackingError("RecordScores", set.System, err)
		}
	}
}

// logTrackingError logs run history errors to stderr without disrupting the pipeline.
func logTrackingError(operation, system string, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed for %s on %s", operation, system), err)
}
