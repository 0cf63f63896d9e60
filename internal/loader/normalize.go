package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"

	"paxboard/domain/core"
	"paxboard/domain/dataset"
	"paxboard/domain/passenger"
	"paxboard/internal/table"
)

// Normalize maps raw source text onto the passenger schema:
//   - headers are matched case-insensitively through passenger.Aliases; unknown
//     columns are dropped and the first of duplicate columns wins
//   - a missing identifier column is synthesized as 1..n
//   - Survived and Sex become display labels, Pclass is checked against 1/2/3
//   - blank sibling/spouse counts are 0; blank fares stay missing
//   - missing ages become the median of the ages present
//   - Hover is derived from name, sex, filled age and class
func Normalize(raw *dataset.RawTable) (*table.Table, error) {
	columns := canonicalIndex(raw.Headers)

	var missing []string
	for _, col := range passenger.RequiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewMissingColumnsError(missing)
	}

	schema := passenger.Schema()
	rows := make([][]string, len(raw.Rows))
	for i, src := range raw.Rows {
		row := make([]string, schema.Len())
		for c, col := range schema.Columns {
			value := ""
			if j, ok := columns[col.Name]; ok && j < len(src) {
				value = src[j]
			}

			normalized, err := normalizeCell(col.Name, value, i)
			if err != nil {
				return nil, err
			}
			row[c] = normalized
		}
		rows[i] = row
	}

	tbl, err := table.FromRaw(&dataset.RawTable{Headers: schema.Names(), Rows: rows}, schema)
	if err != nil {
		return nil, err
	}

	if tbl, err = fillMedianAge(tbl); err != nil {
		return nil, err
	}
	return withHover(tbl)
}

// canonicalIndex maps each canonical column name to its first source position.
func canonicalIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		canonical, ok := passenger.Aliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, seen := index[canonical]; !seen {
			index[canonical] = i
		}
	}
	return index
}

func normalizeCell(column, value string, row int) (string, error) {
	invalid := func() error {
		return core.NewSchemaError(fmt.Sprintf("row %d: invalid %s value %q", row+1, column, value))
	}

	switch column {
	case passenger.ColID:
		if table.IsMissing(value) {
			return strconv.Itoa(row + 1), nil
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "", invalid()
		}
		return value, nil

	case passenger.ColSurvived:
		label, ok := passenger.SurvivedLabel(value)
		if !ok {
			return "", invalid()
		}
		return label, nil

	case passenger.ColClass:
		class, ok := passenger.ParseClass(value)
		if !ok {
			return "", invalid()
		}
		return strconv.Itoa(class), nil

	case passenger.ColSex:
		label, ok := passenger.SexLabel(value)
		if !ok || table.IsMissing(value) {
			return "", invalid()
		}
		return label, nil

	case passenger.ColAge, passenger.ColFare:
		if table.IsMissing(value) {
			return "", nil
		}
		if f, err := strconv.ParseFloat(value, 64); err != nil || f < 0 || math.IsInf(f, 0) {
			return "", invalid()
		}
		return value, nil

	case passenger.ColSibSp:
		if table.IsMissing(value) {
			return "0", nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f != math.Trunc(f) {
			return "", invalid()
		}
		return strconv.Itoa(int(f)), nil

	case passenger.ColHover:
		return "", nil
	}
	return value, nil
}

// fillMedianAge replaces missing ages with the median of the present ones,
// computed over the whole table before any filtering.
func fillMedianAge(tbl *table.Table) (*table.Table, error) {
	ages, err := tbl.Floats(passenger.ColAge)
	if err != nil {
		return nil, err
	}
	if len(ages) == 0 {
		return tbl, nil
	}

	present := make([]float64, 0, len(ages))
	for _, a := range ages {
		if !math.IsNaN(a) {
			present = append(present, a)
		}
	}
	if len(present) == len(ages) {
		return tbl, nil
	}
	if len(present) == 0 {
		return nil, core.NewSchemaError("column Age has no values to compute a median from")
	}

	median, err := stats.Median(present)
	if err != nil {
		return nil, fmt.Errorf("median age: %w", err)
	}

	filled := make([]float64, len(ages))
	for i, a := range ages {
		if math.IsNaN(a) {
			a = median
		}
		filled[i] = a
	}
	return tbl.WithColumn(series.New(filled, series.Float, passenger.ColAge))
}

func withHover(tbl *table.Table) (*table.Table, error) {
	names, err := tbl.Values(passenger.ColName)
	if err != nil {
		return nil, err
	}
	sexes, err := tbl.Values(passenger.ColSex)
	if err != nil {
		return nil, err
	}
	classes, err := tbl.Values(passenger.ColClass)
	if err != nil {
		return nil, err
	}
	ages, err := tbl.Floats(passenger.ColAge)
	if err != nil {
		return nil, err
	}

	hovers := make([]string, tbl.Len())
	for i := range hovers {
		class, _ := passenger.ParseClass(classes[i])
		hovers[i] = passenger.HoverText(names[i], sexes[i], ages[i], class)
	}
	return tbl.WithColumn(series.New(hovers, series.String, passenger.ColHover))
}
