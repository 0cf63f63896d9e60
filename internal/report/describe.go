// Package report computes descriptive statistics, value counts and
// correlations over a table. Undefined aggregates (empty input, a single
// observation for a standard deviation, a constant column in a correlation)
// are reported as NaN and never as errors.
package report

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"paxboard/domain/dataset"
	domain "paxboard/domain/report"
	"paxboard/internal/table"
)

var quartiles = []float64{0.25, 0.5, 0.75}

// Describe builds the summary report of t.
func Describe(t *table.Table) domain.SummaryReport {
	schema := t.Schema()
	rep := domain.SummaryReport{
		Shape:       domain.Shape{Rows: t.Len(), Columns: schema.Len()},
		Columns:     make([]domain.ColumnInfo, 0, schema.Len()),
		Numeric:     []domain.NumericStats{},
		Categorical: []domain.CategoricalStats{},
	}

	for _, col := range schema.Columns {
		values, _ := t.Values(col.Name)
		nonNull, unique := cardinality(values)
		rep.Columns = append(rep.Columns, domain.ColumnInfo{
			Name:    col.Name,
			Type:    col.Type,
			Ordered: col.Ordered,
			NonNull: nonNull,
			Unique:  unique,
		})

		if col.Type == dataset.TypeNumeric {
			xs, _ := t.Floats(col.Name)
			rep.Numeric = append(rep.Numeric, DescribeNumeric(col.Name, xs))
			continue
		}
		counts, _ := CountsBy(t, col.Name)
		rep.Categorical = append(rep.Categorical, describeCategorical(col.Name, nonNull, counts))
	}

	rep.Correlation = Correlation(t)
	return rep
}

// DescribeNumeric summarizes xs, ignoring NaN values. The standard deviation
// is the sample (n-1) estimate.
func DescribeNumeric(column string, xs []float64) domain.NumericStats {
	data := dropNaN(xs)
	out := domain.NumericStats{
		Column: column,
		Count:  len(data),
		Mean:   domain.NaN(),
		Std:    domain.NaN(),
		Min:    domain.NaN(),
		Q25:    domain.NaN(),
		Q50:    domain.NaN(),
		Q75:    domain.NaN(),
		Max:    domain.NaN(),
	}
	if len(data) == 0 {
		return out
	}

	if mean, err := stats.Mean(data); err == nil {
		out.Mean = domain.Number(mean)
	}
	if len(data) > 1 {
		if std, err := stats.StandardDeviationSample(data); err == nil {
			out.Std = domain.Number(std)
		}
	}
	if lo, err := stats.Min(data); err == nil {
		out.Min = domain.Number(lo)
	}
	if hi, err := stats.Max(data); err == nil {
		out.Max = domain.Number(hi)
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	q := make([]domain.Number, len(quartiles))
	for i, p := range quartiles {
		q[i] = domain.Number(Quantile(sorted, p))
	}
	out.Q25, out.Q50, out.Q75 = q[0], q[1], q[2]
	return out
}

// Quantile returns the p-quantile of sorted data by linear interpolation
// between the order statistics at floor(h) and ceil(h), h = (n-1)p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	low, high := sorted[int(lo)], sorted[int(hi)]
	return low + (h-lo)*(high-low)
}

func describeCategorical(column string, count int, counts []domain.ValueCount) domain.CategoricalStats {
	out := domain.CategoricalStats{Column: column, Count: count, Unique: len(counts)}
	if len(counts) > 0 {
		out.Top = counts[0].Value
		out.Freq = counts[0].Count
	}
	return out
}

func cardinality(values []string) (nonNull, unique int) {
	seen := make(map[string]bool)
	for _, v := range values {
		if v == "" {
			continue
		}
		nonNull++
		seen[v] = true
	}
	return nonNull, len(seen)
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
