package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/greenmetrics/greenmetrics/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 4
)

// Config holds the runtime configuration for an aggregation run.
// This struct is the "final, validated" config.
type Config struct {
	RootDir      string
	Systems      []string // Systems merged by combine, in column order
	ExcludedDirs []string
	Groups       schema.MetricGroups
	Refactorings []string // Refactoring types reported for every system

	CombinePath   string // Per-system table template containing {system}
	CombineHeader bool   // Per-system tables start with a header row
	CombineOutput string

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RootStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Exclude          string `mapstructure:"exclude"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from combineCmd.Flags() ---
	Systems       []string `mapstructure:"systems"`
	CombinePath   string   `mapstructure:"combine-path"`
	CombineHeader bool     `mapstructure:"combine-header"`
	CombineOutput string   `mapstructure:"combine-output"`

	// --- Fields from churnCmd.Flags() ---
	Refactorings []string `mapstructure:"refactorings"`

	// --- Metric group overrides from config file ---
	Groups map[string][]string `mapstructure:"groups"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Systems = slices.Clone(c.Systems)
	clone.ExcludedDirs = slices.Clone(c.ExcludedDirs)
	clone.Refactorings = slices.Clone(c.Refactorings)
	return &clone
}

// ConfigParams summarizes the config for run history.
func (c *Config) ConfigParams() map[string]any {
	return map[string]any{
		"systems":        c.Systems,
		"refactorings":   c.Refactorings,
		"combine_path":   c.CombinePath,
		"combine_header": c.CombineHeader,
		"groups":         c.Groups.Groups(),
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateHistoryBackend(cfg, input); err != nil {
		return err
	}
	if err := processGroups(cfg, input); err != nil {
		return err
	}
	if err := processCombine(cfg, input); err != nil {
		return err
	}
	return resolveRootDir(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseDatabaseBackend normalizes a backend name; empty means disabled.
func ParseDatabaseBackend(s string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(s) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateSimpleInputs processes and validates the presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	cfg.ExcludedDirs = slices.Clone(schema.DefaultExcludedDirs)
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.ExcludedDirs = append(cfg.ExcludedDirs, trimmed)
			}
		}
	}

	cfg.Refactorings = cleanList(input.Refactorings)
	return nil
}

// validateHistoryBackend validates the run history backend configuration.
func validateHistoryBackend(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseDatabaseBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processGroups builds the immutable metric groups from the config file overrides.
func processGroups(cfg *Config, input *ConfigRawInput) error {
	var overrides map[schema.GroupName][]string
	if len(input.Groups) > 0 {
		overrides = make(map[schema.GroupName][]string, len(input.Groups))
		for name, metrics := range input.Groups {
			overrides[schema.GroupName(strings.ToLower(name))] = metrics
		}
	}
	groups, err := schema.NewMetricGroups(overrides)
	if err != nil {
		return err
	}
	cfg.Groups = groups
	return nil
}

// processCombine validates the merge settings.
func processCombine(cfg *Config, input *ConfigRawInput) error {
	cfg.Systems = cleanList(input.Systems)
	seen := make(map[string]struct{}, len(cfg.Systems))
	for _, s := range cfg.Systems {
		if _, dup := seen[s]; dup {
			return fmt.Errorf("system '%s' is listed more than once", s)
		}
		seen[s] = struct{}{}
	}

	cfg.CombinePath = strings.TrimSpace(input.CombinePath)
	if cfg.CombinePath == "" {
		cfg.CombinePath = schema.DefaultCombinePath
	}
	if !strings.Contains(cfg.CombinePath, schema.SystemPlaceholder) {
		return fmt.Errorf("combine-path '%s' must contain %s", cfg.CombinePath, schema.SystemPlaceholder)
	}
	cfg.CombineHeader = input.CombineHeader
	cfg.CombineOutput = strings.TrimSpace(input.CombineOutput)
	return nil
}

// resolveRootDir resolves the positional root argument to an existing directory.
func resolveRootDir(cfg *Config, input *ConfigRawInput) error {
	root := input.RootStr
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot read root directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", abs)
	}
	cfg.RootDir = filepath.Clean(abs)
	if cfg.CombineOutput == "" {
		cfg.CombineOutput = filepath.Join(cfg.RootDir, schema.CombinedFileName)
	} else if !filepath.IsAbs(cfg.CombineOutput) {
		cfg.CombineOutput = filepath.Join(cfg.RootDir, cfg.CombineOutput)
	}
	return nil
}

// cleanList trims entries and drops empty ones.
func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		for part := range strings.SplitSeq(s, ",") {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// RevalidateRoot points a cloned config at another root directory.
// It is used by the MCP tools, which take the root per call.
func RevalidateRoot(cfg *Config, root string) error {
	if root == "" {
		return nil
	}
	cfg.CombineOutput = ""
	return resolveRootDir(cfg, &ConfigRawInput{RootStr: root})
}

// RevalidateCombine applies per-call merge overrides to a cloned config.
func RevalidateCombine(cfg *Config, systems, combinePath string, combineHeader bool) error {
	input := &ConfigRawInput{
		Systems:       []string{systems},
		CombinePath:   combinePath,
		CombineHeader: combineHeader,
		CombineOutput: cfg.CombineOutput,
	}
	if systems == "" {
		input.Systems = cfg.Systems
	}
	if combinePath == "" {
		input.CombinePath = cfg.CombinePath
	}
	return processCombine(cfg, input)
}

// SplitList splits a comma-separated list, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	return cleanList([]string{s})
}
