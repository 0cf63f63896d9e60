package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"paxboard/domain/dataset"
	"paxboard/internal"
)

// DataReader reads local CSV and Excel files
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a reader for local .csv and .xlsx files
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{logger: logger.WithComponent("DataReader")}
}

// Supports reports whether source is a local path with a known extension.
func (r *DataReader) Supports(source string) bool {
	if strings.Contains(source, "://") {
		return false
	}
	switch fileType(source) {
	case "csv", "xlsx":
		return true
	}
	return false
}

// Read reads the file at path. Excel files are read from their first sheet.
func (r *DataReader) Read(ctx context.Context, path string) (*dataset.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind := fileType(path)
	r.logger.Debug("reading %s file: %s", kind, path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(kind), err)
	}
	defer file.Close()

	start := time.Now()
	var raw *dataset.RawTable
	switch kind {
	case "csv":
		raw, err = ReadCSV(file)
	case "xlsx":
		raw, err = ReadWorkbook(file)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("%s file read in %.2fms (%d columns, %d rows)",
		strings.ToUpper(kind), float64(time.Since(start).Nanoseconds())/1e6, len(raw.Headers), len(raw.Rows))
	return raw, nil
}

// ReadCSV parses comma-separated text whose first record is the header.
// Records may have fewer or more fields than the header.
func ReadCSV(rd io.Reader) (*dataset.RawTable, error) {
	reader := csv.NewReader(rd)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return fromRows(rows, "CSV")
}

// ReadWorkbook parses the first sheet of an xlsx workbook whose first row is
// the header.
func ReadWorkbook(rd io.Reader) (*dataset.RawTable, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return fromRows(rows, "Excel sheet")
}

func fromRows(rows [][]string, kind string) (*dataset.RawTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row", kind)
	}
	return dataset.NewRawTable(rows[0], rows[1:]), nil
}

func fileType(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
