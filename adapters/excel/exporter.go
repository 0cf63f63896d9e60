package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"paxboard/domain/report"
)

const (
	SheetSummary     = "Summary"
	SheetCorrelation = "Correlation"
	SheetPreview     = "Preview"
)

// Exporter writes reports as xlsx workbooks with one sheet per section
type Exporter struct{}

// NewExporter creates an xlsx report exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *Exporter) Extension() string { return ".xlsx" }

// Export writes the Summary, Correlation and Preview sheets to w. Undefined
// statistics are left as blank cells.
func (e *Exporter) Export(w io.Writer, summary report.SummaryReport, preview [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeCells(f, SheetSummary, summaryRows(summary)); err != nil {
		return err
	}

	for _, sheet := range []string{SheetCorrelation, SheetPreview} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}
	if err := writeCells(f, SheetCorrelation, correlationRows(summary.Correlation)); err != nil {
		return err
	}

	previewRows := make([][]interface{}, len(preview))
	for i, row := range preview {
		previewRows[i] = make([]interface{}, len(row))
		for j, cell := range row {
			previewRows[i][j] = cell
		}
	}
	if err := writeCells(f, SheetPreview, previewRows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func summaryRows(summary report.SummaryReport) [][]interface{} {
	rows := [][]interface{}{
		{"Rows", summary.Shape.Rows},
		{"Columns", summary.Shape.Columns},
		{},
		{"Column", "Type", "Non-null", "Unique"},
	}
	for _, col := range summary.Columns {
		rows = append(rows, []interface{}{col.Name, string(col.Type), col.NonNull, col.Unique})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"})
	for _, s := range summary.Numeric {
		rows = append(rows, []interface{}{
			s.Column, s.Count,
			cellNumber(s.Mean), cellNumber(s.Std), cellNumber(s.Min),
			cellNumber(s.Q25), cellNumber(s.Q50), cellNumber(s.Q75), cellNumber(s.Max),
		})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Column", "Count", "Unique", "Top", "Freq"})
	for _, s := range summary.Categorical {
		rows = append(rows, []interface{}{s.Column, s.Count, s.Unique, s.Top, s.Freq})
	}
	return rows
}

func correlationRows(m report.CorrelationMatrix) [][]interface{} {
	header := []interface{}{""}
	for _, c := range m.Columns {
		header = append(header, c)
	}
	rows := [][]interface{}{header}
	for i, c := range m.Columns {
		row := []interface{}{c}
		for _, v := range m.Values[i] {
			row = append(row, cellNumber(v))
		}
		rows = append(rows, row)
	}
	return rows
}

// cellNumber returns nil for undefined values so the cell stays empty.
func cellNumber(n report.Number) interface{} {
	if !n.Defined() {
		return nil
	}
	return n.Float()
}

func writeCells(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
