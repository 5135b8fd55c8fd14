package outwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/greenmetrics/greenmetrics/internal/contract"
)

// LogRunHeader prints a concise, 2-line header for each pipeline step.
// It goes to stderr so that piped CSV and JSON reports stay clean.
func LogRunHeader(cfg *contract.Config, mode string, systems int) {
	rootName := filepath.Base(cfg.RootDir)
	if rootName == "" || rootName == "." {
		rootName = "current"
	}
	_, _ = fmt.Fprintf(os.Stderr, "🔎 Root: %s (Mode: %s)\n", rootName, mode)
	_, _ = fmt.Fprintf(os.Stderr, "📂 Systems: %d\n", systems)
}
