// Package chart builds renderer-independent chart specs from tables.
package chart

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"paxboard/domain/chart"
	"paxboard/domain/core"
	"paxboard/domain/dataset"
	"paxboard/domain/passenger"
	"paxboard/internal/report"
	"paxboard/internal/table"
)

const (
	// DefaultBins is the numeric histogram bin count when none is requested.
	DefaultBins = 20
	// MaxBins bounds the numeric histogram bin count.
	MaxBins = 200
)

// Request selects the columns of a chart.
type Request struct {
	Kind   chart.Kind
	Title  string
	Column string // histogram, pie and bar
	X, Y   string // scatter
	Color  string // scatter, optional
	Bins   int    // numeric histograms
}

// Build dispatches on req.Kind.
func Build(t *table.Table, req Request) (chart.Spec, error) {
	switch req.Kind {
	case chart.KindHistogram:
		return Histogram(t, req.Column, req.Bins, req.Title)
	case chart.KindScatter:
		return Scatter(t, req.X, req.Y, req.Color, req.Title)
	case chart.KindPie:
		return Pie(t, req.Column, req.Title)
	case chart.KindBar:
		return Bar(t, req.Column, req.Title)
	}
	return chart.Spec{}, fmt.Errorf("%w: kind %q", core.ErrUnknownChart, req.Kind)
}

// Histogram counts a column. Categorical and text columns get one bar per
// category; numeric columns are split into equal-width bins over their range.
func Histogram(t *table.Table, column string, bins int, title string) (chart.Spec, error) {
	col, ok := t.Schema().Lookup(column)
	if !ok {
		return chart.Spec{}, core.NewUnknownColumnError(column)
	}
	spec := chart.Spec{Kind: chart.KindHistogram, Title: titleOr(title, column+" distribution"), X: column, Y: "count"}

	if col.Type != dataset.TypeNumeric {
		points, err := categoryPoints(t, column)
		if err != nil {
			return chart.Spec{}, err
		}
		spec.Series = []chart.Series{{Name: column, Points: points}}
		return spec, nil
	}

	xs, err := t.Floats(column)
	if err != nil {
		return chart.Spec{}, err
	}
	spec.Series = []chart.Series{{Name: column, Points: numericBins(xs, bins)}}
	return spec, nil
}

func numericBins(xs []float64, bins int) []chart.Point {
	data := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			data = append(data, x)
		}
	}
	if len(data) == 0 {
		return []chart.Point{}
	}
	sort.Float64s(data)

	if bins <= 0 {
		bins = DefaultBins
	}
	if bins > MaxBins {
		bins = MaxBins
	}
	lo, hi := data[0], data[len(data)-1]
	if lo == hi {
		bins = 1
		hi = lo + 1
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	width := dividers[1] - dividers[0]
	// the top divider must lie strictly above the maximum
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, data, nil)
	points := make([]chart.Point, bins)
	for i, c := range counts {
		// the last bin holds its upper bound
		label := fmt.Sprintf("[%s, %s)", table.FormatFloat(dividers[i]), table.FormatFloat(dividers[i]+width))
		if i == bins-1 {
			label = fmt.Sprintf("[%s, %s]", table.FormatFloat(dividers[i]), table.FormatFloat(hi))
		}
		points[i] = chart.Point{
			X:     dividers[i],
			Y:     c,
			Width: width,
			Label: label,
		}
	}
	return points
}

// Scatter plots two numeric columns, one series per value of color when set.
// Rows where either value is missing are skipped. Points carry the row's
// Hover text when the table has one.
func Scatter(t *table.Table, x, y, color, title string) (chart.Spec, error) {
	xs, err := t.Floats(x)
	if err != nil {
		return chart.Spec{}, err
	}
	ys, err := t.Floats(y)
	if err != nil {
		return chart.Spec{}, err
	}

	hovers := make([]string, t.Len())
	if t.Schema().Has(passenger.ColHover) {
		hovers, _ = t.Values(passenger.ColHover)
	}

	groups := make([]string, t.Len())
	order := []string{y}
	if color != "" {
		if groups, err = t.Values(color); err != nil {
			return chart.Spec{}, err
		}
		if order, err = t.Categories(color); err != nil {
			return chart.Spec{}, err
		}
	} else {
		for i := range groups {
			groups[i] = y
		}
	}

	index := make(map[string]int, len(order))
	series := make([]chart.Series, len(order))
	for i, name := range order {
		index[name] = i
		series[i] = chart.Series{Name: name, Points: []chart.Point{}}
	}

	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		s, ok := index[groups[i]]
		if !ok {
			continue
		}
		series[s].Points = append(series[s].Points, chart.Point{X: xs[i], Y: ys[i], Hover: hovers[i]})
	}

	return chart.Spec{
		Kind:   chart.KindScatter,
		Title:  titleOr(title, fmt.Sprintf("%s vs %s", x, y)),
		X:      x,
		Y:      y,
		Color:  color,
		Series: series,
	}, nil
}

// Pie shows the share of each value of column, largest first.
func Pie(t *table.Table, column, title string) (chart.Spec, error) {
	counts, err := report.CountsBy(t, column)
	if err != nil {
		return chart.Spec{}, err
	}
	points := make([]chart.Point, len(counts))
	for i, c := range counts {
		points[i] = chart.Point{X: float64(i), Y: float64(c.Count), Label: c.Value}
	}
	return chart.Spec{
		Kind:   chart.KindPie,
		Title:  titleOr(title, column+" share"),
		X:      column,
		Series: []chart.Series{{Name: column, Points: points}},
	}, nil
}

// Bar shows one bar per value of column with its row count.
func Bar(t *table.Table, column, title string) (chart.Spec, error) {
	points, err := categoryPoints(t, column)
	if err != nil {
		return chart.Spec{}, err
	}
	return chart.Spec{
		Kind:   chart.KindBar,
		Title:  titleOr(title, column+" counts"),
		X:      column,
		Y:      "count",
		Series: []chart.Series{{Name: column, Points: points}},
	}, nil
}

// categoryPoints counts column in category order: natural order for ordered
// columns, first-seen order otherwise.
func categoryPoints(t *table.Table, column string) ([]chart.Point, error) {
	categories, err := t.Categories(column)
	if err != nil {
		return nil, err
	}
	counts, err := report.CountsBy(t, column)
	if err != nil {
		return nil, err
	}
	byValue := make(map[string]int, len(counts))
	for _, c := range counts {
		byValue[c.Value] = c.Count
	}

	points := make([]chart.Point, len(categories))
	for i, c := range categories {
		points[i] = chart.Point{X: float64(i), Y: float64(byValue[c]), Label: c}
	}
	return points, nil
}

func titleOr(title, fallback string) string {
	if title != "" {
		return title
	}
	return fallback
}
