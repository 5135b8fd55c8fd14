// Package runstore persists the history of greenmetrics runs and their scores.
package runstore

import (
	"database/sql"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/schema"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/lib/pq"
	_ "modernc.org/sqlite" // SQLite driver
)

// Table names for run history.
const (
	runsTable         = "greenmetrics_runs"
	systemScoresTable = "greenmetrics_system_scores"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{runsTable, systemScoresTable}

// StoreManager manages the RunStore instance.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.RunStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetHistoryStore returns the run history store.
func (mgr *StoreManager) GetHistoryStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName validates that the table name is a safe SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.PostgreSQLBackend:
		return pq.QuoteIdentifier(name)
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite
		return fmt.Sprintf("\"%s\"", name)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}

// parseTime reads a SQLite timestamp written by formatTime.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// driverFor returns the database/sql driver name and normalized DSN for a backend.
// MySQL DSNs always get parseTime so DATETIME columns scan into time.Time.
func driverFor(backend schema.DatabaseBackend, connStr string) (string, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetHistoryDBFilePath()
		}
		return "sqlite", connStr, nil
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return "", "", fmt.Errorf("invalid MySQL connection string: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}
		cfg.ParseTime = true
		return "mysql", cfg.FormatDSN(), nil
	case schema.PostgreSQLBackend:
		return "pgx", connStr, nil
	default:
		return "", "", fmt.Errorf("unsupported history backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// openDB opens and pings the database of a backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driverName, dsn, err := driverFor(backend, connStr)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// DescribeTarget returns a printable description of the history database,
// without credentials.
func DescribeTarget(backend schema.DatabaseBackend, connStr string) string {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			return contract.GetHistoryDBFilePath()
		}
		return connStr
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return "invalid DSN"
		}
		return fmt.Sprintf("%s/%s", cfg.Addr, cfg.DBName)
	case schema.PostgreSQLBackend:
		cfg, err := pgx.ParseConfig(connStr)
		if err != nil {
			return "invalid DSN"
		}
		return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	default:
		return "disabled"
	}
}
