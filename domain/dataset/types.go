package dataset

import (
	"fmt"
	"strings"
)

// ColumnType is the declared semantic type of a table column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeText        ColumnType = "text"
)

// IsValid reports whether t is one of the declared column types.
func (t ColumnType) IsValid() bool {
	switch t {
	case TypeNumeric, TypeCategorical, TypeText:
		return true
	}
	return false
}

// Column describes one column of a table schema
type Column struct {
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	Ordered bool       `json:"ordered,omitempty"` // ordinal categorical (e.g. cabin class)
}

// Schema is the ordered column list every row of a table shares
type Schema struct {
	Columns []Column `json:"columns"`
}

// NewSchema builds a schema, rejecting duplicate names and unknown types.
func NewSchema(columns ...Column) (Schema, error) {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if strings.TrimSpace(col.Name) == "" {
			return Schema{}, fmt.Errorf("column name cannot be empty")
		}
		if seen[col.Name] {
			return Schema{}, fmt.Errorf("duplicate column %q", col.Name)
		}
		if !col.Type.IsValid() {
			return Schema{}, fmt.Errorf("column %q has invalid type %q", col.Name, col.Type)
		}
		seen[col.Name] = true
	}
	return Schema{Columns: append([]Column(nil), columns...)}, nil
}

// Names returns the column names in schema order
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// Lookup returns the column with the given name.
func (s Schema) Lookup(name string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Has reports whether the schema declares name.
func (s Schema) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// OfType returns the names of all columns declared as t, in schema order.
func (s Schema) OfType(t ColumnType) []string {
	var names []string
	for _, col := range s.Columns {
		if col.Type == t {
			names = append(names, col.Name)
		}
	}
	return names
}

// Len returns the number of columns
func (s Schema) Len() int {
	return len(s.Columns)
}

// RawTable is tabular text as read from a source, before typing and normalization
type RawTable struct {
	Headers []string   // Column headers, trimmed
	Rows    [][]string // Data rows; each row has len(Headers) cells
}

// NewRawTable trims headers and cells and pads or truncates every row to the
// header width. Spreadsheet readers drop trailing empty cells, so short rows are
// expected.
func NewRawTable(headers []string, rows [][]string) *RawTable {
	cleanHeaders := make([]string, len(headers))
	for i, h := range headers {
		cleanHeaders[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	cleanRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		clean := make([]string, len(cleanHeaders))
		for j := range clean {
			if j < len(row) {
				clean[j] = strings.TrimSpace(row[j])
			}
		}
		cleanRows = append(cleanRows, clean)
	}

	return &RawTable{Headers: cleanHeaders, Rows: cleanRows}
}

// Index returns the position of header name, or -1.
func (r *RawTable) Index(name string) int {
	for i, h := range r.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Records returns the header row followed by the data rows.
func (r *RawTable) Records() [][]string {
	records := make([][]string, 0, len(r.Rows)+1)
	records = append(records, r.Headers)
	records = append(records, r.Rows...)
	return records
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
