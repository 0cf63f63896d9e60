// Package loader reads a passenger source into a normalized table.
package loader

import (
	"context"
	"errors"
	"strings"
	"time"

	"paxboard/domain/core"
	"paxboard/internal"
	"paxboard/internal/table"
	"paxboard/ports"
)

// Loader picks the first reader that supports a source and normalizes what
// it reads.
type Loader struct {
	readers []ports.SourceReader
	logger  *internal.Logger
}

// New creates a loader over the given readers, tried in order
func New(logger *internal.Logger, readers ...ports.SourceReader) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{readers: readers, logger: logger.WithComponent("Loader")}
}

// Load reads and normalizes source. Read and parse failures are
// core.ErrSourceUnavailable; missing columns and out-of-range codes are
// core.ErrSchemaMismatch.
func (l *Loader) Load(ctx context.Context, source string) (*table.Table, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, core.NewSourceError("<empty>", errors.New("no data source configured"))
	}

	reader := l.readerFor(source)
	if reader == nil {
		return nil, core.NewSourceError(source, errors.New("no reader supports this source"))
	}

	start := time.Now()
	raw, err := reader.Read(ctx, source)
	if err != nil {
		l.logger.Error("failed to read %s: %v", source, err)
		if core.IsLoadError(err) {
			return nil, err
		}
		return nil, core.NewSourceError(source, err)
	}

	tbl, err := Normalize(raw)
	if err != nil {
		l.logger.Error("failed to normalize %s: %v", source, err)
		return nil, err
	}

	l.logger.Info("loaded %d passengers from %s in %s", tbl.Len(), source, time.Since(start).Round(time.Millisecond))
	return tbl, nil
}

func (l *Loader) readerFor(source string) ports.SourceReader {
	for _, r := range l.readers {
		if r.Supports(source) {
			return r
		}
	}
	return nil
}
