package report

import (
	"bytes"
	"math"
	"strconv"
	"time"

	"paxboard/domain/core"
	"paxboard/domain/dataset"
	"paxboard/domain/passenger"
)

// Number is a statistic that may be undefined. Undefined values (NaN, ±Inf)
// marshal as JSON null and null unmarshals back to NaN.
type Number float64

// NaN returns an undefined Number
func NaN() Number { return Number(math.NaN()) }

// Defined reports whether n holds a finite value.
func (n Number) Defined() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float returns n as a float64
func (n Number) Float() float64 { return float64(n) }

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Defined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = NaN()
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Shape is the row and column count of a table
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// ColumnInfo is the per-column overview: declared type, non-missing count and
// number of distinct non-missing values.
type ColumnInfo struct {
	Name    string             `json:"name"`
	Type    dataset.ColumnType `json:"type"`
	Ordered bool               `json:"ordered,omitempty"`
	NonNull int                `json:"non_null"`
	Unique  int                `json:"unique"`
}

// NumericStats is the describe() block of a numeric column
type NumericStats struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Number `json:"mean"`
	Std    Number `json:"std"` // sample standard deviation
	Min    Number `json:"min"`
	Q25    Number `json:"q25"`
	Q50    Number `json:"q50"`
	Q75    Number `json:"q75"`
	Max    Number `json:"max"`
}

// CategoricalStats is the describe() block of a categorical or text column
type CategoricalStats struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top,omitempty"`
	Freq   int    `json:"freq"`
}

// ValueCount is one row of a frequency table
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CorrelationMatrix holds pairwise Pearson coefficients between numeric
// columns. Values[i][j] pairs Columns[i] and Columns[j].
type CorrelationMatrix struct {
	Columns []string   `json:"columns"`
	Values  [][]Number `json:"values"`
}

// Get returns the coefficient for a pair of columns.
func (m CorrelationMatrix) Get(a, b string) (Number, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return NaN(), false
	}
	return m.Values[i][j], true
}

func (m CorrelationMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// SummaryReport is the full descriptive report of one (filtered) table.
type SummaryReport struct {
	Shape       Shape              `json:"shape"`
	Columns     []ColumnInfo       `json:"columns"`
	Numeric     []NumericStats     `json:"numeric"`
	Categorical []CategoricalStats `json:"categorical"`
	Correlation CorrelationMatrix  `json:"correlation"`
}

// NumericFor returns the numeric block of column, if any.
func (r SummaryReport) NumericFor(column string) (NumericStats, bool) {
	for _, s := range r.Numeric {
		if s.Column == column {
			return s, true
		}
	}
	return NumericStats{}, false
}

// CategoricalFor returns the categorical block of column, if any.
func (r SummaryReport) CategoricalFor(column string) (CategoricalStats, bool) {
	for _, s := range r.Categorical {
		if s.Column == column {
			return s, true
		}
	}
	return CategoricalStats{}, false
}

// Snapshot is an archived report together with the filter that produced it
type Snapshot struct {
	ID          core.SnapshotID    `json:"id" db:"id"`
	Source      string             `json:"source" db:"source"`
	DatasetHash core.DatasetHash   `json:"dataset_hash" db:"dataset_hash"`
	CohortHash  core.CohortHash    `json:"cohort_hash" db:"cohort_hash"`
	Criteria    passenger.Criteria `json:"criteria"`
	Report      SummaryReport      `json:"report"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}
