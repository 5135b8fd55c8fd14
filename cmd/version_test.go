package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteVersion(t *testing.T) {
	var buf bytes.Buffer
	writeVersion(&buf)
	out := buf.String()

	assert.Contains(t, out, "greenmetrics dev (commit none, built unknown, go")
	assert.Contains(t, out, "<system>_maintainability.json (")
	assert.Contains(t, out, "<system>_internal_osh-findings.json (")
	assert.Contains(t, out, "Metric groups: maintainability, measurability, freshness, reliability\n")
	assert.Contains(t, out, "History backends: sqlite (default), mysql, postgresql, none\n")
}
