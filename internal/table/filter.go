package table

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"

	"paxboard/domain/core"
	"paxboard/domain/passenger"
)

var filterColumns = []string{passenger.ColSurvived, passenger.ColClass, passenger.ColSex, passenger.ColAge}

// Apply returns the rows of t that satisfy every predicate of c. The age
// interval is closed. A criteria with an empty set selects no rows and is not
// an error; Apply fails only when t lacks one of the filtered columns.
func Apply(t *Table, c passenger.Criteria) (*Table, error) {
	for _, col := range filterColumns {
		if !t.schema.Has(col) {
			return nil, core.NewUnknownColumnError(col)
		}
	}

	n := c.Normalize()
	if n.SelectsNothing() || t.Len() == 0 {
		return Empty(t.schema), nil
	}

	classes := make([]string, len(n.Classes))
	for i, class := range n.Classes {
		classes[i] = strconv.Itoa(class)
	}

	frame := t.frame.FilterAggregation(dataframe.And,
		dataframe.F{Colname: passenger.ColSurvived, Comparator: series.In, Comparando: n.Survived},
		dataframe.F{Colname: passenger.ColClass, Comparator: series.In, Comparando: classes},
		dataframe.F{Colname: passenger.ColSex, Comparator: series.In, Comparando: n.Sexes},
		dataframe.F{Colname: passenger.ColAge, Comparator: series.GreaterEq, Comparando: n.AgeMin},
		dataframe.F{Colname: passenger.ColAge, Comparator: series.LessEq, Comparando: n.AgeMax},
	)
	if frame.Err != nil {
		return nil, fmt.Errorf("filter passengers: %w", frame.Err)
	}
	if frame.Nrow() == 0 {
		return Empty(t.schema), nil
	}
	return &Table{frame: frame, schema: t.schema}, nil
}

// DefaultCriteria selects every survival state, class and sex present in t and
// its full age range, the state a dashboard starts from.
func DefaultCriteria(t *Table) (passenger.Criteria, error) {
	survived, err := t.Categories(passenger.ColSurvived)
	if err != nil {
		return passenger.Criteria{}, err
	}
	classLabels, err := t.Categories(passenger.ColClass)
	if err != nil {
		return passenger.Criteria{}, err
	}
	sexes, err := t.Categories(passenger.ColSex)
	if err != nil {
		return passenger.Criteria{}, err
	}
	ages, err := t.Floats(passenger.ColAge)
	if err != nil {
		return passenger.Criteria{}, err
	}

	classes := make([]int, 0, len(classLabels))
	for _, label := range classLabels {
		if class, ok := passenger.ParseClass(label); ok {
			classes = append(classes, class)
		}
	}

	c := passenger.Criteria{Survived: survived, Classes: classes, Sexes: sexes}
	if len(ages) > 0 {
		c.AgeMin, c.AgeMax = floats.Min(ages), floats.Max(ages)
	}
	return c.Normalize(), nil
}

// ClampRows bounds a requested preview size to [1, total]; an empty table
// previews zero rows.
func ClampRows(n, total int) int {
	if total <= 0 {
		return 0
	}
	if n < 1 {
		return 1
	}
	if n > total {
		return total
	}
	return n
}
