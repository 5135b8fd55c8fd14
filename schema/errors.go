package schema

import "errors"

// Sentinel errors shared across packages.
var (
	// ErrNonNumeric is wrapped when a present metric value cannot be parsed as a number.
	ErrNonNumeric = errors.New("metric value is not numeric")

	// ErrMalformedInput is wrapped when a category file is not valid JSON.
	ErrMalformedInput = errors.New("malformed input file")

	// ErrNoSystems is returned when a root directory holds no system directories.
	ErrNoSystems = errors.New("no system directories found")
)
