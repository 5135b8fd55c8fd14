package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalSystems  int              `json:"total_systems"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the greenmetrics_runs table.
type RunRecord struct {
	RunID         int64
	Command       string
	RootDir       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	TotalSystems  int
	ConfigParams  *string
}

// RunScoreRecord represents a row from the greenmetrics_system_scores table.
type RunScoreRecord struct {
	RunID           int64
	System          string
	VolumePM        string
	Maintainability float64
	Measurability   float64
	Freshness       float64
	Reliability     float64
	Greenability    float64
	ScoreLabel      string
}
