package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/schema"
)

// RunStoreImpl implements the RunStore interface on a SQL database.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
// The none backend returns a store whose operations are no-ops.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the run history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{systemScoresTable, getCreateSystemScoresQuery(backend)},
	}
	for _, table := range tables {
		if err := validateTableName(table.name); err != nil {
			return err
		}
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for greenmetrics_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				command VARCHAR(64) NOT NULL,
				root_dir VARCHAR(1024) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				total_systems INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				command TEXT NOT NULL,
				root_dir TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				total_systems INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				command TEXT NOT NULL,
				root_dir TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_systems INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)
	}
}

// getCreateSystemScoresQuery returns the CREATE TABLE query for greenmetrics_system_scores.
func getCreateSystemScoresQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(systemScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				system_name VARCHAR(255) NOT NULL,
				volume_pm VARCHAR(64) NOT NULL,
				maintainability DOUBLE NOT NULL,
				measurability DOUBLE NOT NULL,
				freshness DOUBLE NOT NULL,
				reliability DOUBLE NOT NULL,
				greenability DOUBLE NOT NULL,
				score_label VARCHAR(32) NOT NULL,
				PRIMARY KEY (run_id, system_name)
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				system_name TEXT NOT NULL,
				volume_pm TEXT NOT NULL,
				maintainability DOUBLE PRECISION NOT NULL,
				measurability DOUBLE PRECISION NOT NULL,
				freshness DOUBLE PRECISION NOT NULL,
				reliability DOUBLE PRECISION NOT NULL,
				greenability DOUBLE PRECISION NOT NULL,
				score_label TEXT NOT NULL,
				PRIMARY KEY (run_id, system_name)
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				system_name TEXT NOT NULL,
				volume_pm TEXT NOT NULL,
				maintainability REAL NOT NULL,
				measurability REAL NOT NULL,
				freshness REAL NOT NULL,
				reliability REAL NOT NULL,
				greenability REAL NOT NULL,
				score_label TEXT NOT NULL,
				PRIMARY KEY (run_id, system_name)
			);
		`, quoted)
	}
}

// disabled reports whether the store is a no-op.
func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(command, rootDir string, startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quoted := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (command, root_dir, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quoted)
		err = rs.db.QueryRow(query, command, rootDir, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (command, root_dir, start_time, config_params) VALUES (?, ?, ?, ?)`, quoted)
		var result sql.Result
		result, err = rs.db.Exec(query, command, rootDir, formatTime(startTime, rs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalSystems int) error {
	if rs.disabled() {
		return nil
	}

	quoted := quoteTableName(runsTable, rs.backend)

	var startTime time.Time
	switch rs.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quoted)
		if err := rs.db.QueryRow(query, runID).Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		var err error
		if startTime, err = parseTime(startTimeStr); err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = $1`, quoted)
		if err := rs.db.QueryRow(query, runID).Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
	default: // MySQL
		query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quoted)
		if err := rs.db.QueryRow(query, runID).Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var query string
	var args []any
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_systems = $3 WHERE run_id = $4`, quoted)
		args = []any{endTime, durationMs, totalSystems, runID}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_systems = ? WHERE run_id = ?`, quoted)
		args = []any{formatTime(endTime, rs.backend), durationMs, totalSystems, runID}
	}
	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordScores stores the score set of one system for a run.
func (rs *RunStoreImpl) RecordScores(runID int64, scores schema.ScoreSet, label string) error {
	if rs.disabled() {
		return nil
	}

	quoted := quoteTableName(systemScoresTable, rs.backend)
	columns := `run_id, system_name, volume_pm, maintainability, measurability, freshness, reliability, greenability, score_label`

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, quoted, columns)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoted, columns)
	}

	_, err := rs.db.Exec(query,
		runID, scores.System, scores.VolumePM,
		scores.Maintainability, scores.Measurability, scores.Freshness, scores.Reliability,
		scores.Greenability, label,
	)
	if err != nil {
		return fmt.Errorf("failed to record scores for %s: %w", scores.System, err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (rs *RunStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)

		// Each row is scanned before the next query since sqlite holds a single connection
		switch rs.backend {
		case schema.SQLiteBackend:
			var lastStr, oldestStr string
			if err := rs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &lastStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			if err := rs.db.QueryRow(oldestQuery).Scan(&oldestStr); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
			var err error
			if status.LastRunTime, err = parseTime(lastStr); err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			if status.OldestRunTime, err = parseTime(oldestStr); err != nil {
				return status, fmt.Errorf("failed to parse oldest run time: %w", err)
			}
		default: // MySQL and PostgreSQL store as native datetime
			if err := rs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			if err := rs.db.QueryRow(oldestQuery).Scan(&status.OldestRunTime); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
		}

		query := fmt.Sprintf("SELECT COALESCE(SUM(total_systems), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(query).Scan(&status.TotalSystems); err != nil {
			return status, fmt.Errorf("failed to get total systems: %w", err)
		}
	}

	for _, table := range historyTables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllRuns retrieves every run in ID order.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, command, root_dir, start_time, end_time, run_duration_ms, total_systems, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		switch rs.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr *string
			if err := rows.Scan(&record.RunID, &record.Command, &record.RootDir, &startStr, &endStr,
				&record.RunDurationMs, &record.TotalSystems, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if record.StartTime, err = parseTime(startStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr != nil {
				endTime, err := parseTime(*endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.Command, &record.RootDir, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.TotalSystems, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllScores retrieves every recorded score in run and system order.
func (rs *RunStoreImpl) GetAllScores() ([]schema.RunScoreRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, system_name, volume_pm, maintainability, measurability,
		freshness, reliability, greenability, score_label
		FROM %s ORDER BY run_id, system_name`, quoteTableName(systemScoresTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query system scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunScoreRecord
	for rows.Next() {
		var r schema.RunScoreRecord
		if err := rows.Scan(&r.RunID, &r.System, &r.VolumePM, &r.Maintainability, &r.Measurability,
			&r.Freshness, &r.Reliability, &r.Greenability, &r.ScoreLabel); err != nil {
			return nil, fmt.Errorf("failed to scan system scores: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating system scores: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db == nil {
		return nil
	}
	return rs.db.Close()
}
