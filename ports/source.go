package ports

import (
	"context"

	"paxboard/domain/dataset"
)

// SourceReader reads tabular text from a data source (a file path or URL).
// Readers do not interpret the values; typing and normalization happen in the
// loader.
type SourceReader interface {
	// Supports reports whether the reader can handle source.
	Supports(source string) bool
	// Read returns the header and rows of source.
	Read(ctx context.Context, source string) (*dataset.RawTable, error)
}
