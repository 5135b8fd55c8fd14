package schema

import (
	"path/filepath"
	"strconv"
	"strings"
)

// DisplayName returns the name a system is reported under.
// Directory names such as "churn2-cbeanutils-original" report their second
// dash-separated segment; names without a dash are returned unchanged.
func DisplayName(system string) string {
	parts := strings.Split(system, "-")
	if len(parts) < 2 || parts[1] == "" {
		return system
	}
	return parts[1]
}

// FormatNumber renders a float with the shortest representation that round-trips.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SystemTablePath returns the flattened metric table of a system.
func SystemTablePath(root, system string) string {
	return filepath.Join(root, system, system+".csv")
}

// SystemChurnPath returns the per-system churn CSV of a system.
func SystemChurnPath(root, system string) string {
	return filepath.Join(root, system, "churn-"+system+".csv")
}

// ExpandSystemPath substitutes the system placeholder in a path template
// and resolves the result against root.
func ExpandSystemPath(root, template, system string) string {
	p := strings.ReplaceAll(template, SystemPlaceholder, system)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
