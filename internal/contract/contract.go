// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/greenmetrics/greenmetrics/schema"
)

// StoreManager defines the interface for reaching the persistence stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() RunStore
}

// RunStore defines the interface for tracking aggregation runs and their scores.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID.
	BeginRun(command, rootDir string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, totalSystems int) error

	// RecordScores stores the score set of one system for a run.
	RecordScores(runID int64, scores schema.ScoreSet, label string) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves every run in ID order.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllScores retrieves every recorded score in run and system order.
	GetAllScores() ([]schema.RunScoreRecord, error)

	// Close closes the underlying connection.
	Close() error
}
