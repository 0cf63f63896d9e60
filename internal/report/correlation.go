package report

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"paxboard/domain/dataset"
	domain "paxboard/domain/report"
	"paxboard/internal/table"
)

// Correlation returns the Pearson correlation matrix of the numeric columns
// of t. Each pair uses the rows where both values are present. A pair with
// fewer than two such rows, or where either side is constant, is NaN; the
// diagonal is 1 exactly when the column has nonzero variance.
func Correlation(t *table.Table) domain.CorrelationMatrix {
	names := t.Schema().OfType(dataset.TypeNumeric)
	cols := make([][]float64, len(names))
	for i, name := range names {
		cols[i], _ = t.Floats(name)
	}

	values := make([][]domain.Number, len(names))
	for i := range values {
		values[i] = make([]domain.Number, len(names))
	}

	for i := range names {
		for j := i; j < len(names); j++ {
			r := pearson(cols[i], cols[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			values[i][j] = domain.Number(r)
			values[j][i] = domain.Number(r)
		}
	}

	if names == nil {
		names = []string{}
	}
	return domain.CorrelationMatrix{Columns: names, Values: values}
}

func pearson(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}

	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
