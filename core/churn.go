package core

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/greenmetrics/greenmetrics/schema"
)

// churnTotals are the running sums of one (system, refactoring) bucket.
type churnTotals struct {
	count  int
	files  int64
	months float64
	loc    int64
}

// ChurnAverager accumulates refactoring observations and averages them per
// (system, refactoring) by the number of counted occurrences.
type ChurnAverager struct {
	systems      []string
	refactorings []string
	totals       map[schema.ChurnKey]*churnTotals
}

// NewChurnAverager creates an averager that reports every refactoring in
// refactorings for every system, in addition to the observed ones.
func NewChurnAverager(refactorings []string) *ChurnAverager {
	a := &ChurnAverager{totals: make(map[schema.ChurnKey]*churnTotals)}
	for _, r := range refactorings {
		a.addRefactoring(r)
	}
	return a
}

// AddSystem registers a system so that it is reported even without observations.
func (a *ChurnAverager) AddSystem(system string) {
	if !slices.Contains(a.systems, system) {
		a.systems = append(a.systems, system)
	}
}

// addRefactoring registers a refactoring type in first-seen order.
func (a *ChurnAverager) addRefactoring(refactoring string) {
	if !slices.Contains(a.refactorings, refactoring) {
		a.refactorings = append(a.refactorings, refactoring)
	}
}

// Observe adds one observation. The totals always accumulate; the occurrence
// count is skipped for extractvariable observations without new files.
func (a *ChurnAverager) Observe(obs schema.ChurnObservation) error {
	files, err := strconv.ParseInt(strings.TrimSpace(obs.NewFiles), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s/%s totalNewFiles=%q", schema.ErrNonNumeric, obs.System, obs.Refactoring, obs.NewFiles)
	}
	months, err := strconv.ParseFloat(strings.TrimSpace(obs.NewMonths), 64)
	if err != nil {
		return fmt.Errorf("%w: %s/%s totalNewVolumeInMonths=%q", schema.ErrNonNumeric, obs.System, obs.Refactoring, obs.NewMonths)
	}
	loc, err := strconv.ParseInt(strings.TrimSpace(obs.NewLoc), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s/%s totalNewVolumeInLoc=%q", schema.ErrNonNumeric, obs.System, obs.Refactoring, obs.NewLoc)
	}

	a.AddSystem(obs.System)
	a.addRefactoring(obs.Refactoring)

	key := schema.ChurnKey{System: obs.System, Refactoring: obs.Refactoring}
	t, ok := a.totals[key]
	if !ok {
		t = &churnTotals{}
		a.totals[key] = t
	}
	if countsAsOccurrence(obs.Refactoring, files) {
		t.count++
	}
	t.files += files
	t.months += months
	t.loc += loc
	return nil
}

// countsAsOccurrence reports whether an observation increments the denominator.
// The extractvariable tool no-ops silently on some inputs, so its zero-file
// observations are not occurrences.
func countsAsOccurrence(refactoring string, files int64) bool {
	if refactoring != schema.ExtractVariableRefactoring {
		return true
	}
	return files != 0
}

// Rows returns one averaged row per registered system and refactoring type,
// systems in registration order and refactorings in first-seen order.
// Buckets without a counted occurrence report zeros.
func (a *ChurnAverager) Rows() []schema.ChurnRow {
	rows := make([]schema.ChurnRow, 0, len(a.systems)*len(a.refactorings))
	for _, system := range a.systems {
		for _, refactoring := range a.refactorings {
			row := schema.ChurnRow{System: system, Refactoring: refactoring}
			if t, ok := a.totals[schema.ChurnKey{System: system, Refactoring: refactoring}]; ok && t.count != 0 {
				n := float64(t.count)
				row.Occurrences = t.count
				row.AvgNewFiles = float64(t.files) / n
				row.AvgNewMonths = t.months / n
				row.AvgNewLoc = float64(t.loc) / n
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// ParseRefactoringFileName splits `<system>-<refactoring>-<number>.json` into the
// refactoring name and number. Names that do not start with the system name drop
// their first dash-separated segment instead.
func ParseRefactoringFileName(system, fileName string) (string, string, error) {
	base := strings.TrimSuffix(fileName, ".json")
	rest, ok := strings.CutPrefix(base, system+"-")
	if !ok {
		_, after, found := strings.Cut(base, "-")
		if !found {
			return "", "", fmt.Errorf("refactoring file %s has no refactoring segment", fileName)
		}
		rest = after
	}
	idx := strings.LastIndex(rest, "-")
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", fmt.Errorf("refactoring file %s must end with -<refactoring>-<number>.json", fileName)
	}
	return rest[:idx], rest[idx+1:], nil
}

// churnField returns the raw value of a churn total, "0" when absent or null.
func churnField(doc []byte, key string) string {
	value, dataType, _, err := jsonparser.Get(doc, key)
	if err != nil || dataType == jsonparser.Null {
		return "0"
	}
	if dataType == jsonparser.String {
		if s, err := jsonparser.ParseString(value); err == nil {
			return s
		}
	}
	return string(value)
}

// ParseChurnDocument builds an observation from a per-refactoring JSON document.
// Empty, malformed and non-object documents (and empty objects) mean no data
// and produce an all-zero observation.
func ParseChurnDocument(system, refactoring, number string, doc []byte) schema.ChurnObservation {
	obs := schema.ChurnObservation{
		System:      system,
		Refactoring: refactoring,
		Number:      number,
		NewFiles:    "0",
		NewMonths:   "0",
		NewLoc:      "0",
	}
	if !isNonEmptyObject(doc) {
		return obs
	}
	obs.NewFiles = churnField(doc, "totalNewFiles")
	obs.NewMonths = churnField(doc, "totalNewVolumeInMonths")
	obs.NewLoc = churnField(doc, "totalNewVolumeInLoc")
	return obs
}

// isNonEmptyObject reports whether doc is a valid JSON object with at least one key.
func isNonEmptyObject(doc []byte) bool {
	if !json.Valid(doc) {
		return false
	}
	empty := true
	err := jsonparser.ObjectEach(doc, func(_ []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		empty = false
		return nil
	})
	return err == nil && !empty
}

// ReadSystemChurn reads the observations of a per-system churn CSV by header name.
func ReadSystemChurn(path string) ([]schema.ChurnObservation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parseSystemChurn(f)
}

// parseSystemChurn is the reader behind ReadSystemChurn.
func parseSystemChurn(r io.Reader) ([]schema.ChurnObservation, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read churn header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[h] = i
	}
	for _, required := range []string{"System", "Refactoring", "totalNewFiles", "totalNewVolumeInMonths", "totalNewVolumeInLoc"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("churn table is missing column %q", required)
		}
	}
	cell := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	var out []schema.ChurnObservation
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse churn table: %w", err)
		}
		out = append(out, schema.ChurnObservation{
			System:      cell(row, "System"),
			Refactoring: cell(row, "Refactoring"),
			Number:      cell(row, "Refactoring Number"),
			NewFiles:    cell(row, "totalNewFiles"),
			NewMonths:   cell(row, "totalNewVolumeInMonths"),
			NewLoc:      cell(row, "totalNewVolumeInLoc"),
		})
	}
	return out, nil
}
