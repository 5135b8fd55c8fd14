package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/greenmetrics/greenmetrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// obs builds a churn observation with raw totals.
func obs(system, refactoring, files, months, loc string) schema.ChurnObservation {
	return schema.ChurnObservation{
		System:      system,
		Refactoring: refactoring,
		Number:      "1",
		NewFiles:    files,
		NewMonths:   months,
		NewLoc:      loc,
	}
}

// TestChurnAveragerAverages tests count-weighted averaging per bucket.
func TestChurnAveragerAverages(t *testing.T) {
	a := NewChurnAverager(nil)
	require.NoError(t, a.Observe(obs("s", "inline", "2", "1.5", "10")))
	require.NoError(t, a.Observe(obs("s", "inline", "4", "0.5", "30")))

	rows := a.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, schema.ChurnRow{
		System:       "s",
		Refactoring:  "inline",
		Occurrences:  2,
		AvgNewFiles:  3,
		AvgNewMonths: 1,
		AvgNewLoc:    20,
	}, rows[0])
}

// TestChurnAveragerExtractVariable tests that zero-file extractvariable runs are
// not occurrences while their totals still accumulate.
func TestChurnAveragerExtractVariable(t *testing.T) {
	tests := []struct {
		name        string
		input       []schema.ChurnObservation
		occurrences int
		avgFiles    float64
		avgMonths   float64
	}{
		{
			name: "zero-file run is not counted",
			input: []schema.ChurnObservation{
				obs("s", "extractvariable", "2", "1", "10"),
				obs("s", "extractvariable", "0", "3", "0"),
			},
			occurrences: 1,
			avgFiles:    2,
			avgMonths:   4,
		},
		{
			name: "denominator counts only the nonzero run",
			input: []schema.ChurnObservation{
				obs("sysA", "extractvariable", "0", "0", "0"),
				obs("sysA", "extractvariable", "0", "0", "0"),
				obs("sysA", "extractvariable", "5", "0", "0"),
			},
			occurrences: 1,
			avgFiles:    5,
			avgMonths:   0,
		},
		{
			name: "only zero-file runs report zeros",
			input: []schema.ChurnObservation{
				obs("s", "extractvariable", "0", "0.5", "7"),
			},
			occurrences: 0,
			avgFiles:    0,
			avgMonths:   0,
		},
		{
			name: "other refactorings count zero-file runs",
			input: []schema.ChurnObservation{
				obs("s", "extractmethod", "0", "0", "0"),
				obs("s", "extractmethod", "4", "2", "8"),
			},
			occurrences: 2,
			avgFiles:    2,
			avgMonths:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewChurnAverager(nil)
			for _, o := range tt.input {
				require.NoError(t, a.Observe(o))
			}
			rows := a.Rows()
			require.Len(t, rows, 1)
			assert.Equal(t, tt.occurrences, rows[0].Occurrences)
			assert.InDelta(t, tt.avgFiles, rows[0].AvgNewFiles, 1e-9)
			assert.InDelta(t, tt.avgMonths, rows[0].AvgNewMonths, 1e-9)
		})
	}
}

// TestChurnAveragerUniverse tests that configured refactorings appear for every system.
func TestChurnAveragerUniverse(t *testing.T) {
	a := NewChurnAverager([]string{"inline", "rename"})
	a.AddSystem("empty")
	require.NoError(t, a.Observe(obs("busy", "move", "1", "1", "1")))

	rows := a.Rows()
	var keys []string
	for _, r := range rows {
		keys = append(keys, r.System+"/"+r.Refactoring)
	}
	assert.Equal(t, []string{
		"empty/inline", "empty/rename", "empty/move",
		"busy/inline", "busy/rename", "busy/move",
	}, keys)
	assert.Equal(t, schema.ChurnRow{System: "empty", Refactoring: "move"}, rows[2])
	assert.Equal(t, 1, rows[5].Occurrences)
}

// TestChurnAveragerStrictParsing tests that malformed totals are fatal.
func TestChurnAveragerStrictParsing(t *testing.T) {
	tests := []struct {
		name string
		o    schema.ChurnObservation
	}{
		{"fractional file count", obs("s", "r", "1.5", "1", "1")},
		{"text months", obs("s", "r", "1", "many", "1")},
		{"fractional loc", obs("s", "r", "1", "1", "2.0")},
		{"empty files", obs("s", "r", "", "1", "1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewChurnAverager(nil)
			err := a.Observe(tt.o)
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrNonNumeric)
			assert.Empty(t, a.Rows())
		})
	}
}

// TestParseRefactoringFileName tests splitting refactoring file names.
func TestParseRefactoringFileName(t *testing.T) {
	tests := []struct {
		name        string
		system      string
		file        string
		refactoring string
		number      string
		wantErr     bool
	}{
		{"simple", "cbeanutils", "cbeanutils-inline-3.json", "inline", "3", false},
		{"dashed system", "churn2-cbeanutils", "churn2-cbeanutils-extractvariable-12.json", "extractvariable", "12", false},
		{"dashed refactoring", "sys", "sys-extract-method-1.json", "extract-method", "1", false},
		{"foreign prefix", "sys", "other-rename-2.json", "rename", "2", false},
		{"no number", "sys", "sys-rename.json", "", "", true},
		{"no dash", "sys", "sys_maintainability.json", "", "", true},
		{"trailing dash", "sys", "sys-rename-.json", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refactoring, number, err := ParseRefactoringFileName(tt.system, tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.refactoring, refactoring)
			assert.Equal(t, tt.number, number)
		})
	}
}

// TestParseChurnDocument tests reading totals from refactoring documents.
func TestParseChurnDocument(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		files  string
		months string
		loc    string
	}{
		{"all fields", `{"totalNewFiles": 3, "totalNewVolumeInMonths": 0.25, "totalNewVolumeInLoc": 120}`, "3", "0.25", "120"},
		{"missing fields", `{"totalNewFiles": 3}`, "3", "0", "0"},
		{"null field", `{"totalNewFiles": null, "other": 1}`, "0", "0", "0"},
		{"string field", `{"totalNewFiles": "4"}`, "4", "0", "0"},
		{"empty object", `{}`, "0", "0", "0"},
		{"empty file", ``, "0", "0", "0"},
		{"malformed", `{"totalNewFiles": `, "0", "0", "0"},
		{"array", `[1, 2]`, "0", "0", "0"},
		{"trailing garbage", `{"totalNewFiles": 3, "totalNewVolumeInMonths": 1.5, "totalNewVolumeInLoc": 9} garbage`, "0", "0", "0"},
		{"trailing comma", `{"totalNewFiles": 3, "totalNewVolumeInMonths": 1.5, "totalNewVolumeInLoc": 9,}`, "0", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseChurnDocument("s", "inline", "1", []byte(tt.doc))
			assert.Equal(t, "s", got.System)
			assert.Equal(t, "inline", got.Refactoring)
			assert.Equal(t, "1", got.Number)
			assert.Equal(t, tt.files, got.NewFiles)
			assert.Equal(t, tt.months, got.NewMonths)
			assert.Equal(t, tt.loc, got.NewLoc)
		})
	}
}

// TestParseSystemChurn tests reading per-system churn tables by header name.
func TestParseSystemChurn(t *testing.T) {
	t.Run("rows by header", func(t *testing.T) {
		data := strings.Join(schema.ChurnSystemHeader, ",") + "\ns,inline,1,2,0.5,10\n"
		got, err := parseSystemChurn(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, schema.ChurnObservation{
			System: "s", Refactoring: "inline", Number: "1",
			NewFiles: "2", NewMonths: "0.5", NewLoc: "10",
		}, got[0])
	})

	t.Run("header only", func(t *testing.T) {
		got, err := parseSystemChurn(strings.NewReader(strings.Join(schema.ChurnSystemHeader, ",") + "\n"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty file", func(t *testing.T) {
		got, err := parseSystemChurn(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := parseSystemChurn(strings.NewReader("System,Refactoring\ns,r\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "totalNewFiles")
	})
}

// TestReadSystemChurnMissing tests that a missing table reports os.ErrNotExist.
func TestReadSystemChurnMissing(t *testing.T) {
	_, err := ReadSystemChurn(filepath.Join(t.TempDir(), "churn-x.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
