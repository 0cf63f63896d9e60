package ui

import (
	"context"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"paxboard/app"
	"paxboard/domain/passenger"
	"paxboard/domain/report"
	chartbuilder "paxboard/internal/chart"
	reportbuilder "paxboard/internal/report"
	"paxboard/internal/table"
)

// chartLink is one chart tile of the dashboard page
type chartLink struct {
	Name  string
	Title string
	URL   string
}

// option is one checkbox of the filter form
type option struct {
	Value   string
	Label   string
	Checked bool
}

// dashboardPage is the data behind the dashboard template
type dashboardPage struct {
	Source         string
	LoadedAt       time.Time
	ArchiveEnabled bool
	ReadOnly       bool

	Survived []option
	Classes  []option
	Sexes    []option
	AgeMin   float64
	AgeMax   float64
	Rows     int

	Total   int
	Matched int
	Columns []string
	Preview [][]string
	Report  report.SummaryReport
	Counts  map[string][]report.ValueCount
	Charts  []chartLink
	Query   template.URL // encoded filter parameters
}

// buildDashboard assembles the page for the filters in q. imageURL maps a
// preset chart name and the encoded filter query to its image URL.
func buildDashboard(ctx context.Context, svc *app.DashboardService, q url.Values, imageURL func(name, query string) string) (*dashboardPage, error) {
	defaults, err := svc.DefaultCriteria(ctx)
	if err != nil {
		return nil, err
	}
	criteria, err := parseCriteria(q, func() (passenger.Criteria, error) { return defaults, nil })
	if err != nil {
		return nil, err
	}
	rows, err := intParam(q, paramRows)
	if err != nil {
		return nil, err
	}

	view, err := svc.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if rows <= 0 {
		rows = svc.PreviewRows()
	}
	preview := view.Table.Head(table.ClampRows(rows, view.Table.Len()))

	page := &dashboardPage{
		Source:         svc.Source(),
		ArchiveEnabled: svc.ArchiveEnabled(),
		Survived:       options(defaults.Survived, view.Criteria.Survived),
		Classes:        classOptions(defaults.Classes, view.Criteria.Classes),
		Sexes:          options(defaults.Sexes, view.Criteria.Sexes),
		AgeMin:         view.Criteria.AgeMin,
		AgeMax:         view.Criteria.AgeMax,
		Rows:           rows,
		Total:          view.Total,
		Matched:        view.Table.Len(),
		Columns:        preview.Names(),
		Preview:        preview.Rows(),
		Report:         reportbuilder.Describe(view.Table),
		Counts:         make(map[string][]report.ValueCount),
		Query:          template.URL(filterQuery(q)),
	}
	page.LoadedAt, _ = svc.LoadedAt()

	for _, col := range []string{passenger.ColSurvived, passenger.ColClass, passenger.ColSex} {
		counts, err := reportbuilder.CountsBy(view.Table, col)
		if err != nil {
			return nil, err
		}
		page.Counts[col] = counts
	}

	for _, name := range chartbuilder.PresetNames {
		page.Charts = append(page.Charts, chartLink{
			Name:  name,
			Title: chartbuilder.PresetTitle(name),
			URL:   imageURL(name, string(page.Query)),
		})
	}
	return page, nil
}

func options(all, selected []string) []option {
	out := make([]option, len(all))
	for i, v := range all {
		out[i] = option{Value: v, Label: v, Checked: contains(selected, v)}
	}
	return out
}

func classOptions(all, selected []int) []option {
	out := make([]option, len(all))
	for i, c := range all {
		label := strconv.Itoa(c)
		checked := false
		for _, s := range selected {
			checked = checked || s == c
		}
		out[i] = option{Value: label, Label: "Class " + label, Checked: checked}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
