package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Score label constants, on the 0.5 to 5.5 star scale used by the analysis service.
const (
	GreenValue    = "Green"    // Green value
	FairValue     = "Fair"     // Fair value
	PoorValue     = "Poor"     // Poor value
	CriticalValue = "Critical" // Critical value
)

// Color variables for console output.
var (
	GreenColor    = color.New(color.FgGreen, color.Bold) // GreenColor marks systems at or above four stars.
	FairColor     = color.New(color.FgCyan)              // FairColor marks systems around market average.
	PoorColor     = color.New(color.FgYellow)            // PoorColor marks systems below market average.
	CriticalColor = color.New(color.FgRed, color.Bold)   // CriticalColor marks systems that need attention first.
)

// GetPlainLabel returns a plain text label for a greenability score.
// This is the core logic used for CSV, JSON, parquet and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 4.0:
		return GreenValue
	case score >= 3.0:
		return FairValue
	case score >= 2.0:
		return PoorValue
	default:
		return CriticalValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case GreenValue:
		return GreenColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	case PoorValue:
		return PoorColor.Sprint(text)
	default:
		return CriticalColor.Sprint(text)
	}
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SelectOutputFile returns the file handle for output, or os.Stdout when filePath is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldSkipDir returns true if a directory name under the root is not a system.
// Hidden directories are always skipped.
func ShouldSkipDir(name string, excluded []string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ex := range excluded {
		if strings.TrimSpace(ex) == name {
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo writes a progress line to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".greenmetrics_history.db"
	}
	return filepath.Join(homeDir, ".greenmetrics_history.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis prefix.
// Requires maxWidth > 3 so the ellipsis leaves room for content.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	case "auto", "":
		return StdoutIsTerminal(), nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0/auto)", s)
	}
}
