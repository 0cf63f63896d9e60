// Package table holds the typed, immutable in-memory passenger table and the
// filter engine that derives subsets from it. Storage is a gota DataFrame:
// numeric columns are Float series, categorical and text columns String series.
package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"paxboard/domain/core"
	"paxboard/domain/dataset"
	"paxboard/domain/passenger"
)

// Table is a column-typed table. Every operation returns a new Table; the
// receiver is never modified.
type Table struct {
	frame  dataframe.DataFrame
	schema dataset.Schema
}

// MissingValues are the cell texts read as a missing value.
var MissingValues = []string{"", "NA", "NaN", "nan", "null"}

// IsMissing reports whether a raw cell holds a missing value.
func IsMissing(cell string) bool {
	for _, m := range MissingValues {
		if cell == m {
			return true
		}
	}
	return false
}

// StorageType returns the gota series type a declared column type is stored as.
func StorageType(t dataset.ColumnType) series.Type {
	if t == dataset.TypeNumeric {
		return series.Float
	}
	return series.String
}

// New wraps frame after checking it carries every schema column with the
// matching storage type. Columns outside the schema are dropped.
func New(frame dataframe.DataFrame, schema dataset.Schema) (*Table, error) {
	if frame.Err != nil {
		return nil, fmt.Errorf("invalid frame: %w", frame.Err)
	}
	if schema.Len() == 0 {
		return nil, core.NewSchemaError("schema has no columns")
	}

	present := make(map[string]bool, frame.Ncol())
	for _, name := range frame.Names() {
		present[name] = true
	}

	var missing []string
	for _, col := range schema.Columns {
		if !present[col.Name] {
			missing = append(missing, col.Name)
			continue
		}
		if got, want := frame.Col(col.Name).Type(), StorageType(col.Type); got != want {
			return nil, core.NewSchemaError(fmt.Sprintf("column %q stored as %s, want %s", col.Name, got, want))
		}
	}
	if len(missing) > 0 {
		return nil, core.NewMissingColumnsError(missing)
	}

	frame = frame.Select(schema.Names())
	if frame.Err != nil {
		return nil, fmt.Errorf("select schema columns: %w", frame.Err)
	}
	return &Table{frame: frame, schema: schema}, nil
}

// FromRaw types raw text by schema. Blank and NA cells become missing values.
func FromRaw(raw *dataset.RawTable, schema dataset.Schema) (*Table, error) {
	if len(raw.Rows) == 0 {
		for _, col := range schema.Columns {
			if raw.Index(col.Name) < 0 {
				return nil, core.NewMissingColumnsError([]string{col.Name})
			}
		}
		return Empty(schema), nil
	}

	types := make(map[string]series.Type, schema.Len())
	for _, col := range schema.Columns {
		types[col.Name] = StorageType(col.Type)
	}

	frame := dataframe.LoadRecords(raw.Records(),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
		dataframe.NaNValues(MissingValues),
	)
	return New(frame, schema)
}

// Empty returns a zero-row table with the given schema.
func Empty(schema dataset.Schema) *Table {
	cols := make([]series.Series, len(schema.Columns))
	for i, col := range schema.Columns {
		if col.Type == dataset.TypeNumeric {
			cols[i] = series.New([]float64{}, series.Float, col.Name)
		} else {
			cols[i] = series.New([]string{}, series.String, col.Name)
		}
	}
	return &Table{frame: dataframe.New(cols...), schema: schema}
}

// FromRecords builds a passenger table from normalized records.
func FromRecords(records []passenger.Record) *Table {
	n := len(records)
	ids := make([]float64, n)
	survived := make([]string, n)
	classes := make([]string, n)
	names := make([]string, n)
	sexes := make([]string, n)
	ages := make([]float64, n)
	sibsp := make([]float64, n)
	fares := make([]float64, n)
	hovers := make([]string, n)

	for i, r := range records {
		ids[i] = float64(r.ID)
		survived[i] = r.SurvivedLabel()
		classes[i] = strconv.Itoa(r.Class)
		names[i] = r.Name
		sexes[i] = r.Sex
		ages[i] = r.Age
		sibsp[i] = float64(r.SiblingsSpouses)
		fares[i] = r.Fare
		hovers[i] = r.Hover
	}

	frame := dataframe.New(
		series.New(ids, series.Float, passenger.ColID),
		series.New(survived, series.String, passenger.ColSurvived),
		series.New(classes, series.String, passenger.ColClass),
		series.New(names, series.String, passenger.ColName),
		series.New(sexes, series.String, passenger.ColSex),
		series.New(ages, series.Float, passenger.ColAge),
		series.New(sibsp, series.Float, passenger.ColSibSp),
		series.New(fares, series.Float, passenger.ColFare),
		series.New(hovers, series.String, passenger.ColHover),
	)
	return &Table{frame: frame, schema: passenger.Schema()}
}

// WithColumn returns a copy of t with the column named s.Name replaced by s.
// The column must exist and s must have its storage type and length.
func (t *Table) WithColumn(s series.Series) (*Table, error) {
	col, ok := t.schema.Lookup(s.Name)
	if !ok {
		return nil, core.NewUnknownColumnError(s.Name)
	}
	if s.Type() != StorageType(col.Type) {
		return nil, fmt.Errorf("column %q: got %s series, want %s", s.Name, s.Type(), StorageType(col.Type))
	}
	if s.Len() != t.Len() {
		return nil, fmt.Errorf("column %q: got %d values, want %d", s.Name, s.Len(), t.Len())
	}

	frame := t.frame.Mutate(s)
	if frame.Err != nil {
		return nil, fmt.Errorf("replace column %q: %w", s.Name, frame.Err)
	}
	return &Table{frame: frame, schema: t.schema}, nil
}

// Len returns the number of rows
func (t *Table) Len() int { return t.frame.Nrow() }

// Schema returns the declared column schema
func (t *Table) Schema() dataset.Schema { return t.schema }

// Names returns the column names in schema order
func (t *Table) Names() []string { return t.schema.Names() }

// Head returns the first n rows. n is clamped to [0, Len].
func (t *Table) Head(n int) *Table {
	if n >= t.Len() {
		return t
	}
	if n <= 0 {
		return Empty(t.schema)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Subset(idx)
}

// Subset returns the rows at the given positions, in the given order.
func (t *Table) Subset(indexes []int) *Table {
	if len(indexes) == 0 {
		return Empty(t.schema)
	}
	return &Table{frame: t.frame.Subset(indexes), schema: t.schema}
}

// Floats returns a numeric column. Missing cells are NaN.
func (t *Table) Floats(column string) ([]float64, error) {
	col, ok := t.schema.Lookup(column)
	if !ok {
		return nil, core.NewUnknownColumnError(column)
	}
	if col.Type != dataset.TypeNumeric {
		return nil, fmt.Errorf("%w: %q is %s, not numeric", core.ErrUnknownColumn, column, col.Type)
	}
	return t.frame.Col(column).Float(), nil
}

// Values returns a column formatted as display text. Missing cells are "".
func (t *Table) Values(column string) ([]string, error) {
	if !t.schema.Has(column) {
		return nil, core.NewUnknownColumnError(column)
	}
	s := t.frame.Col(column)
	out := make([]string, s.Len())
	for i := range out {
		out[i] = formatCell(s.Elem(i))
	}
	return out, nil
}

// Categories returns the distinct non-missing values of a column. Ordered
// columns come back in their natural order, others in first-seen order.
func (t *Table) Categories(column string) ([]string, error) {
	values, err := t.Values(column)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}

	if col, _ := t.schema.Lookup(column); col.Ordered {
		SortOrdered(out)
	}
	return out, nil
}

// SortOrdered sorts category labels numerically when they all parse as
// numbers and lexically otherwise.
func SortOrdered(values []string) {
	nums := make(map[string]float64, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			sort.Strings(values)
			return
		}
		nums[v] = f
	}
	sort.SliceStable(values, func(i, j int) bool { return nums[values[i]] < nums[values[j]] })
}

// Rows returns the formatted cells of every row in schema order.
func (t *Table) Rows() [][]string {
	names := t.schema.Names()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = t.frame.Col(name)
	}

	rows := make([][]string, t.Len())
	for r := range rows {
		row := make([]string, len(cols))
		for c, s := range cols {
			row[c] = formatCell(s.Elem(r))
		}
		rows[r] = row
	}
	return rows
}

// Records returns the header followed by Rows.
func (t *Table) Records() [][]string {
	return append([][]string{t.Names()}, t.Rows()...)
}

// Fingerprint hashes the table contents.
func (t *Table) Fingerprint() core.DatasetHash {
	return core.ComputeDatasetHash(t.Names(), t.Rows())
}

// Passengers converts a passenger table back into records.
func (t *Table) Passengers() ([]passenger.Record, error) {
	for _, col := range passenger.Schema().Columns {
		if !t.schema.Has(col.Name) {
			return nil, core.NewMissingColumnsError([]string{col.Name})
		}
	}

	ids := t.frame.Col(passenger.ColID).Float()
	survived := t.frame.Col(passenger.ColSurvived)
	classes := t.frame.Col(passenger.ColClass)
	names := t.frame.Col(passenger.ColName)
	sexes := t.frame.Col(passenger.ColSex)
	ages := t.frame.Col(passenger.ColAge).Float()
	sibsp := t.frame.Col(passenger.ColSibSp).Float()
	fares := t.frame.Col(passenger.ColFare).Float()
	hovers := t.frame.Col(passenger.ColHover)

	records := make([]passenger.Record, t.Len())
	for i := range records {
		class, ok := passenger.ParseClass(classes.Elem(i).String())
		if !ok {
			return nil, core.NewSchemaError(fmt.Sprintf("row %d: invalid class %q", i, classes.Elem(i).String()))
		}
		records[i] = passenger.Record{
			ID:              int(ids[i]),
			Survived:        survived.Elem(i).String() == passenger.LabelSurvived,
			Class:           class,
			Name:            formatCell(names.Elem(i)),
			Sex:             formatCell(sexes.Elem(i)),
			Age:             ages[i],
			SiblingsSpouses: int(sibsp[i]),
			Fare:            fares[i],
			Hover:           formatCell(hovers.Elem(i)),
		}
	}
	return records, nil
}

func formatCell(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	if e.Type() == series.Float {
		return FormatFloat(e.Float())
	}
	return e.String()
}

// FormatFloat renders f in its shortest exact decimal form; NaN renders as "".
func FormatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
