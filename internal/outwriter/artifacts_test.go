package outwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/greenmetrics/greenmetrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteSystemTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sys.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale,content\nmore,rows\nstill,here\n"), 0o644))

	record := schema.MetricRecord{
		{Name: "maintainability", Value: "3.2"},
		{Name: "Freshness Risk", Value: "NA"},
		{Name: "rating", Value: "a,b"},
	}
	require.NoError(t, WriteSystemTable(path, record))

	assert.Equal(t, "maintainability,3.2\nFreshness Risk,NA\nrating,\"a,b\"\n", readFile(t, path), "file is truncated and has no header")
}

func TestWriteScoresCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), schema.ScoresFileName)
	sets := []schema.ScoreSet{
		{System: "cbeanutils", VolumePM: "12.5", Maintainability: 3, Measurability: 2.5, Freshness: 0, Reliability: 4, Greenability: 2.375},
	}
	require.NoError(t, WriteScoresCSV(path, sets))

	expected := "System Name,Volume (PM),Maintainability Score,Measurability Score,Freshness Score,Reliability Score,Greenability Score\n" +
		"cbeanutils,12.5,3,2.5,0,4,2.375\n"
	assert.Equal(t, expected, readFile(t, path))
}

func TestWriteScoresCSV_Deterministic(t *testing.T) {
	dir := t.TempDir()
	sets := []schema.ScoreSet{{System: "a", VolumePM: "NA", Maintainability: 1.0 / 3.0, Greenability: 1.0 / 12.0}}

	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, WriteScoresCSV(first, sets))
	require.NoError(t, WriteScoresCSV(second, sets))
	assert.Equal(t, readFile(t, first), readFile(t, second))
}

func TestWriteChurnFiles(t *testing.T) {
	dir := t.TempDir()

	systemPath := filepath.Join(dir, "churn-a.csv")
	require.NoError(t, WriteSystemChurnCSV(systemPath, []schema.ChurnObservation{
		{System: "a", Refactoring: "extractmethod", Number: "1", NewFiles: "2", NewMonths: "0.5", NewLoc: "100"},
	}))
	assert.Equal(t,
		"System,Refactoring,Refactoring Number,totalNewFiles,totalNewVolumeInMonths,totalNewVolumeInLoc\na,extractmethod,1,2,0.5,100\n",
		readFile(t, systemPath))

	churnPath := filepath.Join(dir, schema.ChurnFileName)
	require.NoError(t, WriteChurnCSV(churnPath, []schema.ChurnRow{
		{System: "a", Refactoring: "extractmethod", Occurrences: 2, AvgNewFiles: 1.5, AvgNewMonths: 0.25, AvgNewLoc: 50},
		{System: "a", Refactoring: "extractvariable"},
	}))
	assert.Equal(t,
		"System,Refactoring,average totalNewFiles,average totalNewVolumeInMonths,average totalNewVolumeInLoc\n"+
			"a,extractmethod,1.5,0.25,50\n"+
			"a,extractvariable,0,0,0\n",
		readFile(t, churnPath))
}

func TestWriteCombinedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), schema.CombinedFileName)
	table := schema.CombinedTable{
		Systems: []string{"a", "b"},
		Rows: [][]string{
			{"x", "1", ""},
			{"y", "2", "3"},
			{"z", "", "4"},
		},
	}
	require.NoError(t, WriteCombinedCSV(path, table))
	assert.Equal(t, "metric,a,b\nx,1,\ny,2,3\nz,,4\n", readFile(t, path))
}

func TestWriteArtifact_BadPath(t *testing.T) {
	err := WriteSystemTable(filepath.Join(t.TempDir(), "missing", "x.csv"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create")
}
