package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the console report.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// Category represents one metric category exported by the analysis service.
	Category string

	// GroupName represents a named metric group that is averaged into a score.
	GroupName string
)

// NotAvailable is the sentinel written for configured metrics that have no value.
const NotAvailable = "NA"

// All metric categories supported.
const (
	MaintainabilityCategory  Category = "maintainability"
	ArchitectureCategory     Category = "architecture"
	ReliabilityCategory      Category = "reliability"
	OpenSourceHealthCategory Category = "open-source-health"
)

// All metric groups that feed the greenability score.
const (
	MaintainabilityGroup GroupName = "maintainability"
	MeasurabilityGroup   GroupName = "measurability"
	FreshnessGroup       GroupName = "freshness"
	ReliabilityGroup     GroupName = "reliability"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Refactoring types with special handling in the churn averager.
const (
	// ExtractVariableRefactoring only counts as an occurrence when it produced new files.
	// The refactoring tool silently no-ops on some inputs instead of failing, which
	// leaves an all-zero observation that must not dilute the average.
	ExtractVariableRefactoring = "extractvariable"
)

// Artifact file names written by the pipeline.
const (
	ScoresFileName     = "greenability_scores.csv"
	ChurnFileName      = "churn.csv"
	CombinedFileName   = "combined_systems.csv"
	SystemPlaceholder  = "{system}"
	DefaultCombinePath = SystemPlaceholder + "/" + SystemPlaceholder + ".csv"
)

// ScoresHeader is the header of the combined scores CSV.
var ScoresHeader = []string{
	"System Name",
	"Volume (PM)",
	"Maintainability Score",
	"Measurability Score",
	"Freshness Score",
	"Reliability Score",
	"Greenability Score",
}

// ChurnSystemHeader is the header of a per-system churn CSV.
var ChurnSystemHeader = []string{
	"System",
	"Refactoring",
	"Refactoring Number",
	"totalNewFiles",
	"totalNewVolumeInMonths",
	"totalNewVolumeInLoc",
}

// ChurnHeader is the header of the combined churn CSV.
var ChurnHeader = []string{
	"System",
	"Refactoring",
	"average totalNewFiles",
	"average totalNewVolumeInMonths",
	"average totalNewVolumeInLoc",
}

// CombinedMetricColumn is the key column of the combined wide table.
const CombinedMetricColumn = "metric"

// DefaultExcludedDirs lists directory names under the root that are never systems.
var DefaultExcludedDirs = []string{"virtualenv"}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
