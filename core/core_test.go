package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/internal/runstore"
	"github.com/greenmetrics/greenmetrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testConfig returns a validated-looking config rooted at root that writes
// its report to a JSON file under root.
func testConfig(t *testing.T, root string) *contract.Config {
	t.Helper()
	return &contract.Config{
		RootDir:       root,
		ExcludedDirs:  schema.DefaultExcludedDirs,
		Groups:        schema.DefaultMetricGroups(),
		CombinePath:   schema.DefaultCombinePath,
		CombineOutput: filepath.Join(root, schema.CombinedFileName),
		Precision:     contract.DefaultPrecision,
		Output:        schema.JSONOut,
		OutputFile:    filepath.Join(t.TempDir(), "report.json"),
	}
}

// scoreFixture lays out two systems with a mix of present and missing categories.
func scoreFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	alpha := "churn2-alpha-original"
	writeFile(t, filepath.Join(root, alpha, alpha+"_maintainability.json"),
		`{"volume": 4, "duplication": 2, "volumeInPersonMonths": 10}`)
	writeFile(t, filepath.Join(root, alpha, alpha+"_internal_reliability-findings.json"), `{"rating": 3}`)
	writeFile(t, filepath.Join(root, "beta", "beta_internal_reliability-findings.json"), `{"rating": 4.5}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "virtualenv"), 0o755))
	return root
}

// readFile returns the content of a file as a string.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// TestExecuteRun tests the whole pipeline on disk with run tracking.
func TestExecuteRun(t *testing.T) {
	root := scoreFixture(t)
	cfg := testConfig(t, root)

	store := &runstore.MockRunStore{}
	mgr := &runstore.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)
	store.On("BeginRun", "run", root, mock.Anything, mock.Anything).Return(int64(7), nil).Once()
	store.On("RecordScores", int64(7), mock.Anything, mock.Anything).Return(nil).Twice()
	store.On("EndRun", int64(7), mock.Anything, 2).Return(nil).Once()

	require.NoError(t, ExecuteRun(context.Background(), cfg, mgr))
	store.AssertExpectations(t)

	alpha := "churn2-alpha-original"
	assert.Equal(t, strings.Join([]string{
		"maintainability,NA",
		"componentIndependence,NA",
		"componentEntanglement,NA",
		"duplication,2",
		"moduleCoupling,NA",
		"testCodeRatio,NA",
		"unitComplexity,NA",
		"unitInterfacing,NA",
		"unitSize,NA",
		"volume,4",
		"reliability,3",
	}, "\n")+"\n", readFile(t, schema.SystemTablePath(root, alpha)))
	assert.Equal(t, "reliability,4.5\n", readFile(t, schema.SystemTablePath(root, "beta")))

	assert.Equal(t,
		strings.Join(schema.ScoresHeader, ",")+"\n"+
			"beta,NA,0,0,0,4.5,1.125\n"+
			"alpha,10,3,0,0,3,1.5\n",
		readFile(t, filepath.Join(root, schema.ScoresFileName)))

	combined := readFile(t, cfg.CombineOutput)
	lines := strings.Split(strings.TrimSuffix(combined, "\n"), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "metric,beta,"+alpha, lines[0])
	assert.Equal(t, "reliability,4.5,3", lines[1])
	assert.Equal(t, "maintainability,,NA", lines[2])
	assert.Equal(t, "volume,,4", lines[11])

	report := readFile(t, cfg.OutputFile)
	assert.Contains(t, report, `"greenability": 1.125`)
}

// TestExecuteRunIsDeterministic tests that reruns reproduce every artifact byte for byte.
func TestExecuteRunIsDeterministic(t *testing.T) {
	root := scoreFixture(t)
	cfg := testConfig(t, root)
	artifacts := []string{
		filepath.Join(root, schema.ScoresFileName),
		cfg.CombineOutput,
		schema.SystemTablePath(root, "beta"),
	}

	require.NoError(t, ExecuteRun(context.Background(), cfg, nil))
	first := make([]string, len(artifacts))
	for i, p := range artifacts {
		first[i] = readFile(t, p)
	}
	require.NoError(t, ExecuteRun(context.Background(), cfg, nil))
	for i, p := range artifacts {
		assert.Equal(t, first[i], readFile(t, p), p)
	}
}

// TestExecuteScoresSkipsUnflattened tests that systems without a table are skipped.
func TestExecuteScoresSkipsUnflattened(t *testing.T) {
	root := scoreFixture(t)
	cfg := testConfig(t, root)
	writeFile(t, schema.SystemTablePath(root, "beta"), "reliability,2\n")

	require.NoError(t, ExecuteScores(context.Background(), cfg, nil))
	assert.Equal(t,
		strings.Join(schema.ScoresHeader, ",")+"\nbeta,NA,0,0,0,2,0.5\n",
		readFile(t, filepath.Join(root, schema.ScoresFileName)))
}

// TestExecuteRunSkipsSystemsWithoutCategories tests that a churn-only system
// gets neither a table nor a score row.
func TestExecuteRunSkipsSystemsWithoutCategories(t *testing.T) {
	root := scoreFixture(t)
	writeFile(t, filepath.Join(root, "gamma", "gamma-inline-1.json"), `{"totalNewFiles": 1}`)
	cfg := testConfig(t, root)

	require.NoError(t, ExecuteRun(context.Background(), cfg, nil))
	assert.NoFileExists(t, schema.SystemTablePath(root, "gamma"))
	scores := readFile(t, filepath.Join(root, schema.ScoresFileName))
	assert.NotContains(t, scores, "gamma")
	assert.Equal(t, 3, strings.Count(scores, "\n"))
	assert.NotContains(t, readFile(t, cfg.CombineOutput), "gamma")
}

// TestExecuteScoresSkipsEmptyTable tests that an empty flattened table yields no score row.
func TestExecuteScoresSkipsEmptyTable(t *testing.T) {
	root := scoreFixture(t)
	cfg := testConfig(t, root)
	writeFile(t, schema.SystemTablePath(root, "beta"), "")

	require.NoError(t, ExecuteScores(context.Background(), cfg, nil))
	assert.Equal(t, strings.Join(schema.ScoresHeader, ",")+"\n",
		readFile(t, filepath.Join(root, schema.ScoresFileName)))
}

// TestExecuteScoresNonNumeric tests that a non-numeric group value fails the run.
func TestExecuteScoresNonNumeric(t *testing.T) {
	root := scoreFixture(t)
	cfg := testConfig(t, root)
	writeFile(t, schema.SystemTablePath(root, "beta"), "reliability,high\n")

	store := &runstore.MockRunStore{}
	mgr := &runstore.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)
	store.On("BeginRun", "scores", root, mock.Anything, mock.Anything).Return(int64(1), nil)
	store.On("EndRun", int64(1), mock.Anything, 0).Return(nil)

	err := ExecuteScores(context.Background(), cfg, mgr)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrNonNumeric)
	store.AssertNotCalled(t, "RecordScores", mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

// TestExecuteScoresTrackingFailure tests that history failures do not stop scoring.
func TestExecuteScoresTrackingFailure(t *testing.T) {
	root := scoreFixture(t)
	cfg := testConfig(t, root)
	writeFile(t, schema.SystemTablePath(root, "beta"), "reliability,2\n")

	store := &runstore.MockRunStore{}
	mgr := &runstore.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)
	store.On("BeginRun", "scores", root, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	require.NoError(t, ExecuteScores(context.Background(), cfg, mgr))
	store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
	assert.FileExists(t, filepath.Join(root, schema.ScoresFileName))
}

// TestExecuteFlattenMalformed tests that malformed category JSON aborts the run.
func TestExecuteFlattenMalformed(t *testing.T) {
	root := scoreFixture(t)
	writeFile(t, filepath.Join(root, "beta", "beta_maintainability.json"), `{"volume": `)

	err := ExecuteFlatten(context.Background(), testConfig(t, root), nil)
	assert.ErrorIs(t, err, schema.ErrMalformedInput)
}

// TestExecuteFlattenEmptyRoot tests that a root without systems is an error.
func TestExecuteFlattenEmptyRoot(t *testing.T) {
	err := ExecuteFlatten(context.Background(), testConfig(t, t.TempDir()), nil)
	assert.ErrorIs(t, err, schema.ErrNoSystems)
}

// churnFixture lays out one system with three refactoring documents and a category file.
func churnFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "s", "s-inline-1.json"),
		`{"totalNewFiles": 2, "totalNewVolumeInMonths": 0.5, "totalNewVolumeInLoc": 10}`)
	writeFile(t, filepath.Join(root, "s", "s-inline-2.json"), ``)
	writeFile(t, filepath.Join(root, "s", "s-extractvariable-1.json"),
		`{"totalNewFiles": 0, "totalNewVolumeInMonths": 1, "totalNewVolumeInLoc": 0}`)
	writeFile(t, filepath.Join(root, "s", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, "s", "s_maintainability.json"), `{"volume": 4}`)
	return root
}

// TestExecuteChurn tests both churn steps on disk.
func TestExecuteChurn(t *testing.T) {
	root := churnFixture(t)
	cfg := testConfig(t, root)
	cfg.Refactorings = []string{"rename"}

	require.NoError(t, ExecuteChurn(context.Background(), cfg, nil))

	assert.Equal(t,
		strings.Join(schema.ChurnSystemHeader, ",")+"\n"+
			"s,extractvariable,1,0,1,0\n"+
			"s,inline,1,2,0.5,10\n"+
			"s,inline,2,0,0,0\n",
		readFile(t, schema.SystemChurnPath(root, "s")))

	assert.Equal(t,
		strings.Join(schema.ChurnHeader, ",")+"\n"+
			"s,rename,0,0,0\n"+
			"s,extractvariable,0,0,0\n"+
			"s,inline,1,0.25,5\n",
		readFile(t, filepath.Join(root, schema.ChurnFileName)))
}

// TestExecuteChurnStrict tests that a non-integer file count in a churn table is fatal.
func TestExecuteChurnStrict(t *testing.T) {
	root := churnFixture(t)
	writeFile(t, filepath.Join(root, "s", "s-inline-1.json"), `{"totalNewFiles": 2.5}`)

	err := ExecuteChurn(context.Background(), testConfig(t, root), nil)
	assert.ErrorIs(t, err, schema.ErrNonNumeric)
}

// TestExecuteCombine tests merging configured systems with a header template.
func TestExecuteCombine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "metrics.csv"), "metric,value\nx,1\ny,2\n")
	writeFile(t, filepath.Join(root, "c", "metrics.csv"), "metric,value\ny,3\nz,4\n")
	cfg := testConfig(t, root)
	cfg.Systems = []string{"c", "b", "a"}
	cfg.CombinePath = "{system}/metrics.csv"
	cfg.CombineHeader = true

	require.NoError(t, ExecuteCombine(context.Background(), cfg, nil))
	assert.Equal(t, "metric,c,a\ny,3,2\nz,4,\nx,,1\n", readFile(t, cfg.CombineOutput))
}

// TestExecuteGroups tests printing the active groups.
func TestExecuteGroups(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	require.NoError(t, ExecuteGroups(context.Background(), cfg, nil))
	assert.Contains(t, readFile(t, cfg.OutputFile), `"technologyPrevalence"`)
}

// TestGetResultsHaveNoSideEffects tests the in-memory variants used by MCP.
func TestGetResultsHaveNoSideEffects(t *testing.T) {
	root := scoreFixture(t)
	cfg := testConfig(t, root)
	ctx := context.Background()

	sets, err := GetScoreResults(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "beta", sets[0].System)
	assert.Equal(t, "alpha", sets[1].System)
	assert.Equal(t, "10", sets[1].VolumePM)
	assert.InDelta(t, 1.5, sets[1].Greenability, 1e-9)
	assert.NoFileExists(t, schema.SystemTablePath(root, "beta"))
	assert.NoFileExists(t, filepath.Join(root, schema.ScoresFileName))

	table, err := GetCombinedResults(ctx, cfg)
	require.NoError(t, err)
	assert.Empty(t, table.Systems, "nothing has been flattened yet")

	churnRoot := churnFixture(t)
	rows, err := GetChurnResults(ctx, testConfig(t, churnRoot))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "inline", rows[1].Refactoring)
	assert.InDelta(t, 0.25, rows[1].AvgNewMonths, 1e-9)
	assert.NoFileExists(t, schema.SystemChurnPath(churnRoot, "s"))
}
