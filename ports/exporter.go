package ports

import (
	"io"

	"paxboard/domain/report"
)

// ReportExporter writes a report and a preview of the rows it describes.
// preview[0] is the header row.
type ReportExporter interface {
	Export(w io.Writer, summary report.SummaryReport, preview [][]string) error
	ContentType() string
	Extension() string
}
