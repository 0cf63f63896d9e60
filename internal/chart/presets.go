package chart

import (
	"fmt"
	"sort"

	"paxboard/domain/chart"
	"paxboard/domain/core"
	"paxboard/domain/passenger"
	"paxboard/internal/table"
)

// Options tune the preset charts.
type Options struct {
	Rows  int    // rows of the head-of-table age histogram
	Bins  int    // numeric histogram bins
	Color string // optional color column of the age/fare scatter
}

type preset struct {
	description string
	build       func(t *table.Table, opts Options) (chart.Spec, error)
}

var presets = map[string]preset{
	"survived": {
		description: "Survival distribution",
		build: func(t *table.Table, _ Options) (chart.Spec, error) {
			return Histogram(t, passenger.ColSurvived, 0, "Survival distribution")
		},
	},
	"age-fare": {
		description: "Age vs fare",
		build: func(t *table.Table, opts Options) (chart.Spec, error) {
			return Scatter(t, passenger.ColAge, passenger.ColFare, opts.Color, "Age vs fare")
		},
	},
	"class": {
		description: "Passenger class distribution",
		build: func(t *table.Table, _ Options) (chart.Spec, error) {
			return Pie(t, passenger.ColClass, "Passenger class distribution")
		},
	},
	"sex": {
		description: "Sex distribution",
		build: func(t *table.Table, _ Options) (chart.Spec, error) {
			return Bar(t, passenger.ColSex, "Sex distribution")
		},
	},
	"age": {
		description: "Age of the first rows",
		build: func(t *table.Table, opts Options) (chart.Spec, error) {
			n := table.ClampRows(opts.Rows, t.Len())
			return Histogram(t.Head(n), passenger.ColAge, opts.Bins, fmt.Sprintf("Age (first %d rows)", n))
		},
	},
}

// PresetNames lists the dashboard charts in display order.
var PresetNames = []string{"survived", "age-fare", "class", "sex", "age"}

// IsPreset reports whether name is a dashboard chart.
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// Preset builds a dashboard chart by name.
func Preset(name string, t *table.Table, opts Options) (chart.Spec, error) {
	p, ok := presets[name]
	if !ok {
		known := make([]string, 0, len(presets))
		for k := range presets {
			known = append(known, k)
		}
		sort.Strings(known)
		return chart.Spec{}, fmt.Errorf("%w: %q (known: %v)", core.ErrUnknownChart, name, known)
	}
	return p.build(t, opts)
}

// PresetTitle returns the display title of a dashboard chart.
func PresetTitle(name string) string {
	return presets[name].description
}
