// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"golang.org/x/term"
)

// getMaxTableNameWidth calculates the maximum width for system names in table
// output based on terminal width and the width taken by the fixed columns.
func getMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	termWidth := cfg.Width

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - fixedWidth - 10
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}

// scoreLabel returns the label of a greenability score, colored when enabled.
func scoreLabel(score float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}
