package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/greenmetrics/greenmetrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file with its parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const maintainabilityDoc = `{
  "maintainability": 3.5,
  "componentIndependence": null,
  "duplication": 4.1,
  "moduleCoupling": "2.0",
  "testCodeRatio": 1,
  "unitComplexity": 3,
  "unitInterfacing": 2,
  "unitSize": 2.5,
  "volume": 4,
  "volumeInPersonMonths": 12.5
}`

const architectureDoc = `{
  "ratings": {
    "architecture": 3.1,
    "systemProperties": {"codeBreakdown": 2.2, "componentFreshness": 4}
  }
}`

// TestListSystems tests directory discovery and exclusion.
func TestListSystems(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"zeta", "alpha", "virtualenv", ".git"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}
	writeFile(t, filepath.Join(root, "notes.txt"), "x")

	got, err := ListSystems(root, schema.DefaultExcludedDirs)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, got)

	_, err = ListSystems(filepath.Join(root, "missing"), nil)
	assert.Error(t, err)
}

// TestFlattenSystem tests field extraction, NA handling and category order.
func TestFlattenSystem(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "s", "s_maintainability.json"), maintainabilityDoc)
	writeFile(t, filepath.Join(root, "s", "s_architecture-quality.json"), architectureDoc)
	writeFile(t, filepath.Join(root, "s", "s_internal_reliability-findings.json"), `{"rating": 2}`)

	row, err := FlattenSystem(root, "s", schema.DefaultCategories())
	require.NoError(t, err)
	assert.Equal(t, "s", row.Name)
	assert.Equal(t, "12.5", row.VolumePM)

	require.Len(t, row.Records, 3)
	assert.Equal(t, schema.MaintainabilityCategory, row.Records[0].Category)
	assert.Equal(t, schema.ReliabilityCategory, row.Records[1].Category)
	assert.Equal(t, schema.ArchitectureCategory, row.Records[2].Category)

	flat := row.Flatten()
	get := func(name string) string {
		v, ok := flat.Get(name)
		require.True(t, ok, name)
		return v
	}
	assert.Equal(t, "3.5", get("maintainability"))
	assert.Equal(t, "NA", get("componentIndependence"))
	assert.Equal(t, "NA", get("componentEntanglement"))
	assert.Equal(t, "2.0", get("moduleCoupling"))
	assert.Equal(t, "2", get("reliability"))
	assert.Equal(t, "3.1", get("architecture"))
	assert.Equal(t, "2.2", get("codeBreakdown"))
	assert.Equal(t, "NA", get("dataCoupling"))
	_, ok := flat.Get("Freshness Risk")
	assert.False(t, ok, "missing category must not write rows")
	assert.Len(t, flat, 10+1+11)
}

// TestFlattenSystemOpenSourceHealth tests the nested risk values.
func TestFlattenSystemOpenSourceHealth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "s", "s_internal_osh-findings.json"),
		`{"ratings": {"outdatedRating": {"value": 1.5}, "unmaintainedRating": {}, "unmanagedRating": null}}`)

	row, err := FlattenSystem(root, "s", schema.DefaultCategories())
	require.NoError(t, err)
	assert.Equal(t, "NA", row.VolumePM)
	assert.Equal(t, record("Freshness Risk", "1.5", "Activity Risk", "NA", "Management Risk", "NA"), row.Flatten())
}

// TestFlattenSystemVolumeDefault tests that a maintainability file without volume reports 0.
func TestFlattenSystemVolumeDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "s", "s_maintainability.json"), `{"volume": 2}`)

	row, err := FlattenSystem(root, "s", schema.DefaultCategories())
	require.NoError(t, err)
	assert.Equal(t, "0", row.VolumePM)

	volume, err := SystemVolume(root, "s", schema.DefaultCategories())
	require.NoError(t, err)
	assert.Equal(t, "0", volume)

	volume, err = SystemVolume(root, "other", schema.DefaultCategories())
	require.NoError(t, err)
	assert.Equal(t, "NA", volume)
}

// TestFlattenSystemMalformed tests that invalid category JSON is an error.
func TestFlattenSystemMalformed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "s", "s_internal_reliability-findings.json"), `{"rating": `)

	_, err := FlattenSystem(root, "s", schema.DefaultCategories())
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrMalformedInput)
}

// TestExtractField tests scalar rendering of extracted values.
func TestExtractField(t *testing.T) {
	doc := []byte(`{"n": 1.50, "s": "text", "b": true, "z": null, "o": {"k": 2}}`)
	tests := []struct {
		path     []string
		expected string
	}{
		{[]string{"n"}, "1.50"},
		{[]string{"s"}, "text"},
		{[]string{"b"}, "true"},
		{[]string{"z"}, "NA"},
		{[]string{"missing"}, "NA"},
		{[]string{"o", "k"}, "2"},
		{[]string{"o", "missing"}, "NA"},
		{[]string{"n", "deeper"}, "NA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, extractField(doc, tt.path), "%v", tt.path)
	}
}
