package schema

import (
	"fmt"
	"slices"
	"strings"
)

// MetricGroup is a named list of metrics averaged into one score.
type MetricGroup struct {
	Name    GroupName `json:"name"`
	Metrics []string  `json:"metrics"`
}

// MetricGroups is the immutable set of groups used for scoring.
// The zero value is empty; build one with DefaultMetricGroups or NewMetricGroups.
type MetricGroups struct {
	groups []MetricGroup
}

// AllGroupNames lists the groups in score column order.
var AllGroupNames = []GroupName{MaintainabilityGroup, MeasurabilityGroup, FreshnessGroup, ReliabilityGroup}

// defaultGroupMetrics returns fresh copies of the stock group definitions.
func defaultGroupMetrics() map[GroupName][]string {
	return map[GroupName][]string{
		MaintainabilityGroup: {
			"volume",
			"duplication",
			"unitSize",
			"unitComplexity",
			"unitInterfacing",
			"moduleCoupling",
			"componentIndependence",
			"componentEntanglement",
			"codeBreakdown",
			"componentCoupling",
			"testCodeRatio",
		},
		MeasurabilityGroup: {
			"unitInterfacing",
			"moduleCoupling",
			"componentIndependence",
			"componentEntanglement",
			"codeBreakdown",
			"componentCoupling",
			"testCodeRatio",
			"freshness",
			"technologyPrevalence",
		},
		FreshnessGroup: {
			"freshness",
			"technologyPrevalence",
		},
		ReliabilityGroup: {
			"reliability",
		},
	}
}

// DefaultMetricGroups returns the stock group definitions.
func DefaultMetricGroups() MetricGroups {
	groups, _ := NewMetricGroups(nil)
	return groups
}

// NewMetricGroups builds the group set from the defaults, replacing the metric list
// of every group named in overrides. Unknown group names and empty lists are rejected.
func NewMetricGroups(overrides map[GroupName][]string) (MetricGroups, error) {
	defs := defaultGroupMetrics()
	for name, metrics := range overrides {
		if _, ok := defs[name]; !ok {
			return MetricGroups{}, fmt.Errorf("unknown metric group '%s'. must be one of %s", name, joinGroupNames())
		}
		cleaned := make([]string, 0, len(metrics))
		for _, m := range metrics {
			if m = strings.TrimSpace(m); m != "" {
				cleaned = append(cleaned, m)
			}
		}
		if len(cleaned) == 0 {
			return MetricGroups{}, fmt.Errorf("metric group '%s' must list at least one metric", name)
		}
		defs[name] = cleaned
	}

	groups := make([]MetricGroup, 0, len(AllGroupNames))
	for _, name := range AllGroupNames {
		groups = append(groups, MetricGroup{Name: name, Metrics: defs[name]})
	}
	return MetricGroups{groups: groups}, nil
}

// Groups returns a copy of every group in score column order.
func (g MetricGroups) Groups() []MetricGroup {
	out := make([]MetricGroup, len(g.groups))
	for i, grp := range g.groups {
		out[i] = MetricGroup{Name: grp.Name, Metrics: slices.Clone(grp.Metrics)}
	}
	return out
}

// Metrics returns a copy of the metric list of one group, or nil if it is unknown.
func (g MetricGroups) Metrics(name GroupName) []string {
	for _, grp := range g.groups {
		if grp.Name == name {
			return slices.Clone(grp.Metrics)
		}
	}
	return nil
}

// joinGroupNames renders AllGroupNames for error messages.
func joinGroupNames() string {
	names := make([]string, len(AllGroupNames))
	for i, n := range AllGroupNames {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}
