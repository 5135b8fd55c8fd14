// Package schema has models, vocabularies and constants for all parts of greenmetrics.
package schema

// MetricEntry is one `metric,value` cell pair of a flattened system table.
// Value is kept as written so that reruns reproduce the same bytes.
type MetricEntry struct {
	Name  string `json:"metric"`
	Value string `json:"value"`
}

// Available reports whether the entry holds a value other than the NA sentinel.
func (e MetricEntry) Available() bool {
	return e.Value != NotAvailable
}

// MetricRecord is an ordered mapping from metric name to value.
// It preserves insertion order; lookups return the first entry with a name.
type MetricRecord []MetricEntry

// Get returns the value of the first entry named name.
func (r MetricRecord) Get(name string) (string, bool) {
	for _, e := range r {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// CategoryRecord is the flattened output of one category file.
type CategoryRecord struct {
	Category Category     `json:"category"`
	Metrics  MetricRecord `json:"metrics"`
}

// SystemRow groups every flattened record for one analyzed system.
type SystemRow struct {
	Name        string           `json:"name"`         // Directory name of the system
	DisplayName string           `json:"display_name"` // Name shown in the scores CSV
	VolumePM    string           `json:"volume_pm"`    // Volume in person-months, NA without maintainability data
	Records     []CategoryRecord `json:"records"`
}

// Flatten returns every metric of the row in category order.
func (s SystemRow) Flatten() MetricRecord {
	var out MetricRecord
	for _, rec := range s.Records {
		out = append(out, rec.Metrics...)
	}
	return out
}

// ScoreSet holds the derived per-system scores.
type ScoreSet struct {
	System          string  `json:"system"`
	VolumePM        string  `json:"volume_pm"`
	Maintainability float64 `json:"maintainability"`
	Measurability   float64 `json:"measurability"`
	Freshness       float64 `json:"freshness"`
	Reliability     float64 `json:"reliability"`
	Greenability    float64 `json:"greenability"`
}

// ChurnObservation is one refactoring run read from a per-refactoring JSON file.
// The totals keep their source spelling; they are parsed when averaged.
type ChurnObservation struct {
	System      string `json:"system"`
	Refactoring string `json:"refactoring"`
	Number      string `json:"number"`
	NewFiles    string `json:"total_new_files"`
	NewMonths   string `json:"total_new_volume_in_months"`
	NewLoc      string `json:"total_new_volume_in_loc"`
}

// Record returns the observation as a per-system churn CSV row.
func (o ChurnObservation) Record() []string {
	return []string{o.System, o.Refactoring, o.Number, o.NewFiles, o.NewMonths, o.NewLoc}
}

// ChurnKey identifies one (system, refactoring) accumulation bucket.
type ChurnKey struct {
	System      string
	Refactoring string
}

// ChurnRow is one averaged line of the combined churn CSV.
type ChurnRow struct {
	System       string  `json:"system"`
	Refactoring  string  `json:"refactoring"`
	Occurrences  int     `json:"occurrences"`
	AvgNewFiles  float64 `json:"average_total_new_files"`
	AvgNewMonths float64 `json:"average_total_new_volume_in_months"`
	AvgNewLoc    float64 `json:"average_total_new_volume_in_loc"`
}

// CombinedTable is the wide table produced by the outer-join merge.
// Rows[i][0] is the metric name, Rows[i][j+1] the value for Systems[j].
type CombinedTable struct {
	Systems []string   `json:"systems"`
	Rows    [][]string `json:"rows"`
}

// Header returns the CSV header of the table.
func (t CombinedTable) Header() []string {
	return append([]string{CombinedMetricColumn}, t.Systems...)
}

// Column returns the cells of one system column in row order.
func (t CombinedTable) Column(system string) []string {
	idx := -1
	for i, s := range t.Systems {
		if s == system {
			idx = i + 1
			break
		}
	}
	if idx < 0 {
		return nil
	}
	col := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[idx]
	}
	return col
}

// Metrics returns the metric names in row order.
func (t CombinedTable) Metrics() []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[0]
	}
	return out
}
