package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/greenmetrics/greenmetrics/schema"
)

// GroupScore returns the mean of the record values whose metric belongs to the
// group and is not NA. A group with no usable values scores 0. Present values
// that are not numbers are an error.
func GroupScore(record schema.MetricRecord, metrics []string) (float64, error) {
	members := make(map[string]struct{}, len(metrics))
	for _, m := range metrics {
		members[m] = struct{}{}
	}

	sum := 0.0
	count := 0
	for _, e := range record {
		if _, ok := members[e.Name]; !ok || !e.Available() {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(e.Value), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", schema.ErrNonNumeric, e.Name, e.Value)
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

// ComputeScoreSet derives every group score of a system and the greenability
// score, the plain mean of the four group scores.
func ComputeScoreSet(system, volumePM string, record schema.MetricRecord, groups schema.MetricGroups) (schema.ScoreSet, error) {
	set := schema.ScoreSet{System: system, VolumePM: volumePM}
	targets := map[schema.GroupName]*float64{
		schema.MaintainabilityGroup: &set.Maintainability,
		schema.MeasurabilityGroup:   &set.Measurability,
		schema.FreshnessGroup:       &set.Freshness,
		schema.ReliabilityGroup:     &set.Reliability,
	}

	total := 0.0
	for _, g := range groups.Groups() {
		score, err := GroupScore(record, g.Metrics)
		if err != nil {
			return set, fmt.Errorf("system %s, group %s: %w", system, g.Name, err)
		}
		if dst, ok := targets[g.Name]; ok {
			*dst = score
		}
		total += score
	}
	if n := len(groups.Groups()); n > 0 {
		set.Greenability = total / float64(n)
	}
	return set, nil
}

// ReadSystemTable reads a two-column `metric,value` CSV. Rows with fewer than two
// cells are ignored; when hasHeader is set the first row is dropped.
func ReadSystemTable(path string, hasHeader bool) (schema.MetricRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parseSystemTable(f, hasHeader)
}

// parseSystemTable is the reader behind ReadSystemTable.
func parseSystemTable(r io.Reader, hasHeader bool) (schema.MetricRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var record schema.MetricRecord
	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse metric table: %w", err)
		}
		if first && hasHeader {
			first = false
			continue
		}
		first = false
		if len(row) < 2 {
			continue
		}
		record = append(record, schema.MetricEntry{Name: row[0], Value: row[1]})
	}
	return record, nil
}
