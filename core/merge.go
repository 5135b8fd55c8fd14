package core

import "github.com/greenmetrics/greenmetrics/schema"

// TableMerger folds per-system metric tables into one wide table with a full
// outer join on metric name. Rows keep first-seen order; every later system
// appends the metrics it introduces.
type TableMerger struct {
	systems []string
	rows    [][]string
	index   map[string]int
}

// NewTableMerger creates an empty merger.
func NewTableMerger() *TableMerger {
	return &TableMerger{index: make(map[string]int)}
}

// Add joins one system's table in as a new column. Within the table the first
// value of a repeated metric wins. Existing rows the system lacks get an empty cell.
func (m *TableMerger) Add(system string, record schema.MetricRecord) {
	m.systems = append(m.systems, system)
	width := len(m.systems) + 1
	for i := range m.rows {
		m.rows[i] = append(m.rows[i], "")
	}

	filled := make(map[int]bool, len(record))
	for _, e := range record {
		idx, ok := m.index[e.Name]
		if !ok {
			row := make([]string, width)
			row[0] = e.Name
			m.rows = append(m.rows, row)
			idx = len(m.rows) - 1
			m.index[e.Name] = idx
		}
		if filled[idx] {
			continue
		}
		m.rows[idx][width-1] = e.Value
		filled[idx] = true
	}
}

// Table returns a copy of the merged table.
func (m *TableMerger) Table() schema.CombinedTable {
	rows := make([][]string, len(m.rows))
	for i, r := range m.rows {
		rows[i] = append([]string(nil), r...)
	}
	return schema.CombinedTable{
		Systems: append([]string(nil), m.systems...),
		Rows:    rows,
	}
}

// TableLoader returns the metric table of a system, or an error if it is absent.
type TableLoader func(system string) (schema.MetricRecord, error)

// MergeSystems merges the tables of systems in order. Systems whose table cannot
// be loaded are reported through skip and left out of the result.
func MergeSystems(systems []string, load TableLoader, skip func(system string, err error)) schema.CombinedTable {
	m := NewTableMerger()
	for _, system := range systems {
		record, err := load(system)
		if err != nil {
			if skip != nil {
				skip(system, err)
			}
			continue
		}
		m.Add(system, record)
	}
	return m.Table()
}
