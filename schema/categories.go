package schema

import "slices"

// FieldSpec maps one output metric to a key path inside a category JSON file.
type FieldSpec struct {
	Name string   // Metric name written to the system table
	Path []string // Key path inside the source document
}

// CategorySpec describes one category source file and the fields extracted from it.
type CategorySpec struct {
	Category   Category
	FileSuffix string // Appended to the system name to form the file name
	Fields     []FieldSpec
	WarnAbsent bool // Log a warning when the file is missing
}

// FileName returns the category file name for a system.
func (c CategorySpec) FileName(system string) string {
	return system + c.FileSuffix
}

// topLevel builds field specs read from the document root under their own name.
func topLevel(names ...string) []FieldSpec {
	out := make([]FieldSpec, len(names))
	for i, n := range names {
		out[i] = FieldSpec{Name: n, Path: []string{n}}
	}
	return out
}

// nested builds field specs read from prefix.<name>.
func nested(prefix []string, names ...string) []FieldSpec {
	out := make([]FieldSpec, len(names))
	for i, n := range names {
		out[i] = FieldSpec{Name: n, Path: append(slices.Clone(prefix), n)}
	}
	return out
}

// DefaultCategories returns the category vocabularies in the order they are written
// to a system table: maintainability, reliability, architecture, open-source health.
func DefaultCategories() []CategorySpec {
	architecture := []FieldSpec{{Name: "architecture", Path: []string{"ratings", "architecture"}}}
	architecture = append(architecture, nested([]string{"ratings", "systemProperties"},
		"codeBreakdown",
		"componentCoupling",
		"technologyPrevalence",
		"componentCohesion",
		"codeReuse",
		"communicationCentralization",
		"dataCoupling",
		"boundedEvolution",
		"knowledgeDistribution",
		"componentFreshness",
	)...)

	return []CategorySpec{
		{
			Category:   MaintainabilityCategory,
			FileSuffix: "_maintainability.json",
			Fields: topLevel(
				"maintainability",
				"componentIndependence",
				"componentEntanglement",
				"duplication",
				"moduleCoupling",
				"testCodeRatio",
				"unitComplexity",
				"unitInterfacing",
				"unitSize",
				"volume",
			),
		},
		{
			Category:   ReliabilityCategory,
			FileSuffix: "_internal_reliability-findings.json",
			Fields:     []FieldSpec{{Name: "reliability", Path: []string{"rating"}}},
		},
		{
			Category:   ArchitectureCategory,
			FileSuffix: "_architecture-quality.json",
			Fields:     architecture,
		},
		{
			Category:   OpenSourceHealthCategory,
			FileSuffix: "_internal_osh-findings.json",
			Fields: []FieldSpec{
				{Name: "Freshness Risk", Path: []string{"ratings", "outdatedRating", "value"}},
				{Name: "Activity Risk", Path: []string{"ratings", "unmaintainedRating", "value"}},
				{Name: "Management Risk", Path: []string{"ratings", "unmanagedRating", "value"}},
			},
			WarnAbsent: true,
		},
	}
}

// VolumeField is the maintainability field holding the system volume in person-months.
const VolumeField = "volumeInPersonMonths"
