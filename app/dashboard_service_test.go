package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paxboard/domain/chart"
	"paxboard/domain/core"
	"paxboard/domain/passenger"
	"paxboard/domain/report"
	"paxboard/internal/cache"
	"paxboard/internal/table"
)

type MockReportArchive struct {
	mock.Mock
}

func (m *MockReportArchive) Save(ctx context.Context, s *report.Snapshot) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockReportArchive) Get(ctx context.Context, id core.SnapshotID) (*report.Snapshot, error) {
	args := m.Called(ctx, id)
	snapshot, _ := args.Get(0).(*report.Snapshot)
	return snapshot, args.Error(1)
}

func (m *MockReportArchive) List(ctx context.Context, limit, offset int) ([]*report.Snapshot, error) {
	args := m.Called(ctx, limit, offset)
	snapshots, _ := args.Get(0).([]*report.Snapshot)
	return snapshots, args.Error(1)
}

type recordingRenderer struct {
	specs []chart.Spec
}

func (r *recordingRenderer) Render(_ context.Context, spec chart.Spec, w io.Writer) error {
	if spec.IsEmpty() {
		return core.ErrEmptyChart
	}
	r.specs = append(r.specs, spec)
	_, err := w.Write([]byte("img"))
	return err
}

func (r *recordingRenderer) ContentType() string { return "image/test" }

type recordingExporter struct {
	summary report.SummaryReport
	preview [][]string
}

func (e *recordingExporter) Export(w io.Writer, summary report.SummaryReport, preview [][]string) error {
	e.summary, e.preview = summary, preview
	_, err := w.Write([]byte("xlsx"))
	return err
}

func (e *recordingExporter) ContentType() string { return "application/test" }
func (e *recordingExporter) Extension() string   { return ".test" }

func passengers() *table.Table {
	return table.FromRecords([]passenger.Record{
		{ID: 1, Survived: false, Class: 3, Name: "Braund", Sex: "Male", Age: 22, Fare: 7.25, Hover: "Braund"},
		{ID: 2, Survived: true, Class: 1, Name: "Cumings", Sex: "Female", Age: 38, Fare: 71.28, Hover: "Cumings"},
		{ID: 3, Survived: true, Class: 3, Name: "Heikkinen", Sex: "Female", Age: 26, Fare: 7.92, Hover: "Heikkinen"},
	})
}

func newService(t *testing.T, archive *MockReportArchive) (*DashboardService, *recordingRenderer, *recordingExporter) {
	t.Helper()
	loads := 0
	tableCache := cache.New(func(ctx context.Context, source string) (*table.Table, error) {
		loads++
		require.Equal(t, "titanic.csv", source)
		require.Equal(t, 1, loads, "table loaded more than once")
		return passengers(), nil
	}, nil)

	renderer := &recordingRenderer{}
	exporter := &recordingExporter{}
	cfg := DashboardConfig{
		Source:      "titanic.csv",
		Cache:       tableCache,
		Renderer:    renderer,
		Exporter:    exporter,
		PreviewRows: 2,
		Bins:        4,
	}
	if archive != nil {
		cfg.Archive = archive
	}
	return NewDashboardService(cfg), renderer, exporter
}

func TestFilter(t *testing.T) {
	svc, _, _ := newService(t, nil)
	ctx := context.Background()

	all, err := svc.Filter(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Table.Len())
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, []string{"No", "Yes"}, all.Criteria.Survived)

	c := passenger.AllCriteria(0, 80)
	c.Survived = []string{"1"}
	c.Classes = []int{1}
	view, err := svc.Filter(ctx, &c)
	require.NoError(t, err)
	require.Equal(t, 1, view.Table.Len())
	assert.Equal(t, []string{"Yes"}, view.Criteria.Survived)

	none := passenger.AllCriteria(0, 80)
	none.Sexes = []string{}
	empty, err := svc.Filter(ctx, &none)
	require.NoError(t, err)
	assert.Zero(t, empty.Table.Len())
}

func TestPreviewClampsRows(t *testing.T) {
	svc, _, _ := newService(t, nil)
	ctx := context.Background()

	tests := []struct {
		rows, want int
	}{
		{0, 2}, {-3, 2}, {1, 1}, {99, 3},
	}
	for _, tt := range tests {
		head, err := svc.Preview(ctx, nil, tt.rows)
		require.NoError(t, err)
		assert.Equal(t, tt.want, head.Len(), "rows=%d", tt.rows)
	}
}

func TestReportAndCounts(t *testing.T) {
	svc, _, _ := newService(t, nil)
	ctx := context.Background()

	summary, err := svc.Report(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Shape.Rows)
	age, ok := summary.NumericFor(passenger.ColAge)
	require.True(t, ok)
	assert.InDelta(t, 28.6667, age.Mean.Float(), 1e-3)

	counts, err := svc.Counts(ctx, nil, passenger.ColSex)
	require.NoError(t, err)
	assert.Equal(t, []report.ValueCount{{Value: "Female", Count: 2}, {Value: "Male", Count: 1}}, counts)

	_, err = svc.Counts(ctx, nil, "Cabin")
	assert.ErrorIs(t, err, core.ErrUnknownColumn)

	corr, err := svc.Correlation(ctx, nil)
	require.NoError(t, err)
	v, ok := corr.Get(passenger.ColAge, passenger.ColAge)
	require.True(t, ok)
	assert.Equal(t, 1.0, v.Float())
}

func TestChart(t *testing.T) {
	svc, renderer, _ := newService(t, nil)
	ctx := context.Background()

	spec, err := svc.Chart(ctx, nil, "age", ChartOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Age (first 2 rows)", spec.Title)

	spec, err = svc.Chart(ctx, nil, "bar", ChartOptions{Column: passenger.ColClass})
	require.NoError(t, err)
	assert.Equal(t, chart.KindBar, spec.Kind)

	_, err = svc.Chart(ctx, nil, "plot_type", ChartOptions{})
	assert.ErrorIs(t, err, core.ErrUnknownChart)

	var buf bytes.Buffer
	require.NoError(t, svc.ChartImage(ctx, nil, "survived", ChartOptions{}, &buf))
	assert.Equal(t, "img", buf.String())
	require.Len(t, renderer.specs, 1)
	assert.Equal(t, "image/test", svc.ImageContentType())

	none := passenger.AllCriteria(0, 80)
	none.Classes = nil
	err = svc.ChartImage(ctx, &none, "class", ChartOptions{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, core.ErrEmptyChart)
}

func TestExport(t *testing.T) {
	svc, _, exporter := newService(t, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), nil, 0, &buf))
	assert.Equal(t, "xlsx", buf.String())
	assert.Equal(t, 3, exporter.summary.Shape.Rows)
	require.Len(t, exporter.preview, 3) // header + default preview rows
	assert.Equal(t, passenger.ColID, exporter.preview[0][0])

	contentType, ext := svc.ExportFormat()
	assert.Equal(t, "application/test", contentType)
	assert.Equal(t, ".test", ext)
}

func TestSnapshotsDisabled(t *testing.T) {
	svc, _, _ := newService(t, nil)
	ctx := context.Background()

	assert.False(t, svc.ArchiveEnabled())
	_, err := svc.SaveSnapshot(ctx, nil)
	assert.ErrorIs(t, err, core.ErrArchiveDisabled)
	_, err = svc.ListSnapshots(ctx, 10, 0)
	assert.ErrorIs(t, err, core.ErrArchiveDisabled)
	_, err = svc.GetSnapshot(ctx, core.NewSnapshotID())
	assert.ErrorIs(t, err, core.ErrArchiveDisabled)
}

func TestSaveSnapshot(t *testing.T) {
	archive := new(MockReportArchive)
	svc, _, _ := newService(t, archive)
	ctx := context.Background()

	archive.On("Save", mock.Anything, mock.AnythingOfType("*report.Snapshot")).Return(nil).Twice()

	c := passenger.AllCriteria(0, 80)
	c.Survived = []string{"Yes"}
	first, err := svc.SaveSnapshot(ctx, &c)
	require.NoError(t, err)
	assert.Equal(t, "titanic.csv", first.Source)
	assert.Equal(t, 2, first.Report.Shape.Rows)
	assert.False(t, first.DatasetHash == "")

	c.Survived = []string{"1"}
	second, err := svc.SaveSnapshot(ctx, &c)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.CohortHash, second.CohortHash)

	archive.AssertExpectations(t)
}

func TestSaveSnapshotArchiveError(t *testing.T) {
	archive := new(MockReportArchive)
	svc, _, _ := newService(t, archive)

	archive.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := svc.SaveSnapshot(context.Background(), nil)
	assert.ErrorContains(t, err, "connection refused")
}

func TestListAndGetSnapshots(t *testing.T) {
	archive := new(MockReportArchive)
	svc, _, _ := newService(t, archive)
	ctx := context.Background()

	snapshot := &report.Snapshot{ID: core.NewSnapshotID()}
	archive.On("List", mock.Anything, 20, 0).Return([]*report.Snapshot{snapshot}, nil)
	archive.On("Get", mock.Anything, snapshot.ID).Return(snapshot, nil)

	list, err := svc.ListSnapshots(ctx, 0, -1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := svc.GetSnapshot(ctx, snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, got.ID)
}
