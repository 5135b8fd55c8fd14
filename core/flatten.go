package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/buger/jsonparser"
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/schema"
)

// ListSystems returns the system directory names under root in lexical order.
// Plain files and excluded directory names are skipped.
func ListSystems(root string, excluded []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}
	var systems []string
	for _, e := range entries {
		if !e.IsDir() || contract.ShouldSkipDir(e.Name(), excluded) {
			continue
		}
		systems = append(systems, e.Name())
	}
	sort.Strings(systems)
	return systems, nil
}

// readCategoryFile loads a category document, reporting whether it exists.
// Documents that are present but not valid JSON are an error.
func readCategoryFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, true, fmt.Errorf("%w: %s", schema.ErrMalformedInput, path)
	}
	return data, true, nil
}

// extractField returns the value at spec.Path, or the NA sentinel when any
// level of the path is missing or the value is null.
func extractField(doc []byte, path []string) string {
	value, dataType, _, err := jsonparser.Get(doc, path...)
	if err != nil {
		return schema.NotAvailable
	}
	switch dataType {
	case jsonparser.Null, jsonparser.NotExist:
		return schema.NotAvailable
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return string(value)
		}
		return s
	default:
		return string(value)
	}
}

// extractVolume returns the volume in person-months of a maintainability document.
func extractVolume(doc []byte) string {
	value := extractField(doc, []string{schema.VolumeField})
	if value == schema.NotAvailable {
		return "0"
	}
	return value
}

// FlattenSystem reads the category files of one system and extracts the configured
// fields of every file that exists. Categories without a file are left out.
func FlattenSystem(root, system string, categories []schema.CategorySpec) (schema.SystemRow, error) {
	row := schema.SystemRow{
		Name:        system,
		DisplayName: schema.DisplayName(system),
		VolumePM:    schema.NotAvailable,
	}
	systemDir := filepath.Join(root, system)

	for _, spec := range categories {
		path := filepath.Join(systemDir, spec.FileName(system))
		doc, ok, err := readCategoryFile(path)
		if err != nil {
			return row, err
		}
		if !ok {
			if spec.WarnAbsent {
				contract.LogWarn("Failed to find category file", fmt.Errorf("%s", path))
			}
			continue
		}

		metrics := make(schema.MetricRecord, 0, len(spec.Fields))
		for _, field := range spec.Fields {
			metrics = append(metrics, schema.MetricEntry{Name: field.Name, Value: extractField(doc, field.Path)})
		}
		row.Records = append(row.Records, schema.CategoryRecord{Category: spec.Category, Metrics: metrics})

		if spec.Category == schema.MaintainabilityCategory {
			row.VolumePM = extractVolume(doc)
		}
	}
	return row, nil
}

// SystemVolume reads the volume in person-months of a system from its
// maintainability file, NA when the file does not exist.
func SystemVolume(root, system string, categories []schema.CategorySpec) (string, error) {
	for _, spec := range categories {
		if spec.Category != schema.MaintainabilityCategory {
			continue
		}
		doc, ok, err := readCategoryFile(filepath.Join(root, system, spec.FileName(system)))
		if err != nil {
			return schema.NotAvailable, err
		}
		if !ok {
			return schema.NotAvailable, nil
		}
		return extractVolume(doc), nil
	}
	return schema.NotAvailable, nil
}
