// Package render draws chart specs as PNG images with go-chart.
package render

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/sync/semaphore"

	domainchart "paxboard/domain/chart"
	"paxboard/domain/core"
	"paxboard/internal"
)

const (
	DefaultWidth       = 960
	DefaultHeight      = 540
	DefaultConcurrency = 4
	// MaxBars bounds the bars drawn in one bar chart, and with it the image width.
	MaxBars = 200

	barWidth   = 36
	barSpacing = 12
)

// PNGRenderer renders specs to PNG. At most Concurrency renders run at once.
type PNGRenderer struct {
	Width  int
	Height int

	sem    *semaphore.Weighted
	logger *internal.Logger
}

// NewPNGRenderer creates a renderer that allows concurrency simultaneous
// renders. Non-positive values use DefaultConcurrency.
func NewPNGRenderer(concurrency int, logger *internal.Logger) *PNGRenderer {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PNGRenderer{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		sem:    semaphore.NewWeighted(int64(concurrency)),
		logger: logger.WithComponent("Renderer"),
	}
}

func (r *PNGRenderer) ContentType() string { return "image/png" }

// Render draws spec to w.
func (r *PNGRenderer) Render(ctx context.Context, spec domainchart.Spec, w io.Writer) error {
	if spec.IsEmpty() {
		return core.ErrEmptyChart
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer r.sem.Release(1)

	var err error
	switch spec.Kind {
	case domainchart.KindHistogram, domainchart.KindBar:
		err = r.renderBars(spec, w)
	case domainchart.KindPie:
		err = r.renderPie(spec, w)
	case domainchart.KindScatter:
		err = r.renderScatter(spec, w)
	default:
		return fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
	if err != nil {
		r.logger.Warn("render %s %q failed: %v", spec.Kind, spec.Title, err)
		return fmt.Errorf("failed to render %s chart: %w", spec.Kind, err)
	}
	return nil
}

func (r *PNGRenderer) renderBars(spec domainchart.Spec, w io.Writer) error {
	var bars []chart.Value
	top := 0.0
	for _, series := range spec.Series {
		for _, p := range series.Points {
			bars = append(bars, chart.Value{Label: pointLabel(p), Value: p.Y})
			top = math.Max(top, p.Y)
		}
	}
	if len(bars) > MaxBars {
		r.logger.Debug("%q has %d bars, drawing the first %d", spec.Title, len(bars), MaxBars)
		bars = bars[:MaxBars]
	}
	if top <= 0 {
		top = 1
	}

	width := r.Width
	if need := len(bars)*(barWidth+barSpacing) + 120; need > width {
		width = need
	}

	bc := chart.BarChart{
		Title:      spec.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     r.Height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

func (r *PNGRenderer) renderPie(spec domainchart.Spec, w io.Writer) error {
	var values []chart.Value
	for _, series := range spec.Series {
		for _, p := range series.Points {
			if p.Y <= 0 {
				continue
			}
			values = append(values, chart.Value{Label: pointLabel(p), Value: p.Y})
		}
	}
	if len(values) == 0 {
		return core.ErrEmptyChart
	}

	pc := chart.PieChart{
		Title:  spec.Title,
		Width:  r.Height,
		Height: r.Height,
		Values: values,
	}
	return pc.Render(chart.PNG, w)
}

func (r *PNGRenderer) renderScatter(spec domainchart.Spec, w io.Writer) error {
	xr, yr := newSpan(), newSpan()
	var series []chart.Series
	for i, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j], ys[j] = p.X, p.Y
			xr.add(p.X)
			yr.add(p.Y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   dotStyle(i),
		})
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		Width:      r.Width,
		Height:     r.Height,
		XAxis:      chart.XAxis{Name: spec.X, Range: xr.padded()},
		YAxis:      chart.YAxis{Name: spec.Y, Range: yr.padded()},
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, w)
}

// dotStyle draws points only, without connecting lines.
func dotStyle(i int) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    chart.GetDefaultColor(i),
	}
}

func pointLabel(p domainchart.Point) string {
	if p.Label != "" {
		return p.Label
	}
	return fmt.Sprintf("%g", p.X)
}

type span struct{ min, max float64 }

func newSpan() *span { return &span{min: math.Inf(1), max: math.Inf(-1)} }

func (s *span) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
}

// padded widens the span by 5% on each side, and a zero-width span by one
// unit, since go-chart rejects empty ranges.
func (s *span) padded() *chart.ContinuousRange {
	lo, hi := s.min, s.max
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	if hi <= lo {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
