package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"paxboard/domain/chart"
	"paxboard/domain/core"
	"paxboard/domain/passenger"
	"paxboard/domain/report"
	"paxboard/internal"
	"paxboard/internal/cache"
	chartbuilder "paxboard/internal/chart"
	reportbuilder "paxboard/internal/report"
	"paxboard/internal/table"
	"paxboard/ports"
)

// DashboardConfig wires a DashboardService. Archive may be nil, which
// disables snapshots.
type DashboardConfig struct {
	Source      string
	Cache       *cache.TableCache
	Renderer    ports.ChartRenderer
	Exporter    ports.ReportExporter
	Archive     ports.ReportArchive
	PreviewRows int
	Bins        int
	Logger      *internal.Logger
}

// DashboardService answers every dashboard question from the cached table
// of one source. Each call derives its own view; nothing it returns is shared
// mutable state.
type DashboardService struct {
	source      string
	cache       *cache.TableCache
	renderer    ports.ChartRenderer
	exporter    ports.ReportExporter
	archive     ports.ReportArchive
	previewRows int
	bins        int
	logger      *internal.Logger
}

// ChartOptions selects columns for ad-hoc charts and tunes presets
type ChartOptions struct {
	Title  string
	Column string
	X, Y   string
	Color  string
	Bins   int
	Rows   int
}

// View is a filtered table together with the criteria that produced it
type View struct {
	Table    *table.Table
	Criteria passenger.Criteria
	Total    int // rows before filtering
}

// NewDashboardService creates the service
func NewDashboardService(cfg DashboardConfig) *DashboardService {
	logger := cfg.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	previewRows := cfg.PreviewRows
	if previewRows <= 0 {
		previewRows = 5
	}
	bins := cfg.Bins
	if bins <= 0 {
		bins = chartbuilder.DefaultBins
	}
	return &DashboardService{
		source:      cfg.Source,
		cache:       cfg.Cache,
		renderer:    cfg.Renderer,
		exporter:    cfg.Exporter,
		archive:     cfg.Archive,
		previewRows: previewRows,
		bins:        bins,
		logger:      logger.WithComponent("Dashboard"),
	}
}

// Source returns the configured data source
func (s *DashboardService) Source() string { return s.source }

// ArchiveEnabled reports whether snapshots can be saved
func (s *DashboardService) ArchiveEnabled() bool { return s.archive != nil }

// PreviewRows is the default preview length
func (s *DashboardService) PreviewRows() int { return s.previewRows }

// LoadedAt returns when the current table was loaded, if it has been.
func (s *DashboardService) LoadedAt() (time.Time, bool) {
	return s.cache.LoadedAt(s.source)
}

// Table returns the full normalized table.
func (s *DashboardService) Table(ctx context.Context) (*table.Table, error) {
	return s.cache.Get(ctx, s.source)
}

// DefaultCriteria selects every row of the loaded table.
func (s *DashboardService) DefaultCriteria(ctx context.Context) (passenger.Criteria, error) {
	t, err := s.Table(ctx)
	if err != nil {
		return passenger.Criteria{}, err
	}
	return table.DefaultCriteria(t)
}

// Filter applies criteria to the loaded table. Nil criteria select everything.
func (s *DashboardService) Filter(ctx context.Context, criteria *passenger.Criteria) (*View, error) {
	t, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}

	var c passenger.Criteria
	if criteria == nil {
		if c, err = table.DefaultCriteria(t); err != nil {
			return nil, err
		}
	} else {
		c = criteria.Normalize()
	}

	filtered, err := table.Apply(t, c)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("filter kept %d of %d rows", filtered.Len(), t.Len())
	return &View{Table: filtered, Criteria: c, Total: t.Len()}, nil
}

// Preview returns the first rows of the filtered table. rows is clamped to
// [1, len]; non-positive values use the configured default.
func (s *DashboardService) Preview(ctx context.Context, criteria *passenger.Criteria, rows int) (*table.Table, error) {
	view, err := s.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return view.Table.Head(s.clampRows(rows, view.Table.Len())), nil
}

// Report describes the filtered table.
func (s *DashboardService) Report(ctx context.Context, criteria *passenger.Criteria) (report.SummaryReport, error) {
	view, err := s.Filter(ctx, criteria)
	if err != nil {
		return report.SummaryReport{}, err
	}
	return reportbuilder.Describe(view.Table), nil
}

// Counts tallies one column of the filtered table.
func (s *DashboardService) Counts(ctx context.Context, criteria *passenger.Criteria, column string) ([]report.ValueCount, error) {
	view, err := s.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return reportbuilder.CountsBy(view.Table, column)
}

// Correlation returns the Pearson matrix of the filtered table.
func (s *DashboardService) Correlation(ctx context.Context, criteria *passenger.Criteria) (report.CorrelationMatrix, error) {
	view, err := s.Filter(ctx, criteria)
	if err != nil {
		return report.CorrelationMatrix{}, err
	}
	return reportbuilder.Correlation(view.Table), nil
}

// Chart builds a dashboard preset or, when name is a chart kind, an ad-hoc
// chart over the columns in opts.
func (s *DashboardService) Chart(ctx context.Context, criteria *passenger.Criteria, name string, opts ChartOptions) (chart.Spec, error) {
	view, err := s.Filter(ctx, criteria)
	if err != nil {
		return chart.Spec{}, err
	}

	bins := opts.Bins
	if bins <= 0 {
		bins = s.bins
	}

	if chartbuilder.IsPreset(name) {
		rows := opts.Rows
		if rows <= 0 {
			rows = s.previewRows
		}
		return chartbuilder.Preset(name, view.Table, chartbuilder.Options{Rows: rows, Bins: bins, Color: opts.Color})
	}

	kind := chart.Kind(name)
	if !kind.IsValid() {
		return chart.Spec{}, fmt.Errorf("%w: %q", core.ErrUnknownChart, name)
	}
	return chartbuilder.Build(view.Table, chartbuilder.Request{
		Kind:   kind,
		Title:  opts.Title,
		Column: opts.Column,
		X:      opts.X,
		Y:      opts.Y,
		Color:  opts.Color,
		Bins:   bins,
	})
}

// ChartImage renders Chart to w. It returns core.ErrEmptyChart when the
// filtered table yields no points.
func (s *DashboardService) ChartImage(ctx context.Context, criteria *passenger.Criteria, name string, opts ChartOptions, w io.Writer) error {
	if s.renderer == nil {
		return fmt.Errorf("no chart renderer configured")
	}
	spec, err := s.Chart(ctx, criteria, name, opts)
	if err != nil {
		return err
	}
	return s.renderer.Render(ctx, spec, w)
}

// ImageContentType is the MIME type ChartImage writes.
func (s *DashboardService) ImageContentType() string {
	if s.renderer == nil {
		return ""
	}
	return s.renderer.ContentType()
}

// Export writes the report and a preview of the filtered table.
func (s *DashboardService) Export(ctx context.Context, criteria *passenger.Criteria, rows int, w io.Writer) error {
	if s.exporter == nil {
		return fmt.Errorf("no exporter configured")
	}
	view, err := s.Filter(ctx, criteria)
	if err != nil {
		return err
	}
	summary := reportbuilder.Describe(view.Table)
	preview := view.Table.Head(s.clampRows(rows, view.Table.Len()))
	return s.exporter.Export(w, summary, preview.Records())
}

// ExportFormat returns the exporter's MIME type and file extension.
func (s *DashboardService) ExportFormat() (contentType, extension string) {
	if s.exporter == nil {
		return "", ""
	}
	return s.exporter.ContentType(), s.exporter.Extension()
}

// SaveSnapshot describes the filtered table and archives the result.
func (s *DashboardService) SaveSnapshot(ctx context.Context, criteria *passenger.Criteria) (*report.Snapshot, error) {
	if s.archive == nil {
		return nil, core.ErrArchiveDisabled
	}

	t, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}
	ids, err := view.Table.Values(passenger.ColID)
	if err != nil {
		return nil, err
	}

	snapshot := &report.Snapshot{
		ID:          core.NewSnapshotID(),
		Source:      s.source,
		DatasetHash: t.Fingerprint(),
		CohortHash:  core.ComputeCohortHash(ids, view.Criteria.Fingerprint()),
		Criteria:    view.Criteria,
		Report:      reportbuilder.Describe(view.Table),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.archive.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.logger.Info("saved snapshot %s (%d rows, cohort %s)", snapshot.ID, view.Table.Len(), core.Hash(snapshot.CohortHash).Short())
	return snapshot, nil
}

// ListSnapshots returns archived snapshots, newest first.
func (s *DashboardService) ListSnapshots(ctx context.Context, limit, offset int) ([]*report.Snapshot, error) {
	if s.archive == nil {
		return nil, core.ErrArchiveDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.archive.List(ctx, limit, offset)
}

// GetSnapshot returns one archived snapshot.
func (s *DashboardService) GetSnapshot(ctx context.Context, id core.SnapshotID) (*report.Snapshot, error) {
	if s.archive == nil {
		return nil, core.ErrArchiveDisabled
	}
	return s.archive.Get(ctx, id)
}

func (s *DashboardService) clampRows(rows, total int) int {
	if rows <= 0 {
		rows = s.previewRows
	}
	return table.ClampRows(rows, total)
}
