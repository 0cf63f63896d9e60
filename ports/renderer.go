package ports

import (
	"context"
	"io"

	"paxboard/domain/chart"
)

// ChartRenderer draws a chart spec as an image
type ChartRenderer interface {
	// Render writes the image to w. It returns core.ErrEmptyChart when the
	// spec has no points.
	Render(ctx context.Context, spec chart.Spec, w io.Writer) error
	// ContentType is the MIME type Render produces.
	ContentType() string
}
