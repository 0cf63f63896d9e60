package ui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"paxboard/app"
	"paxboard/domain/passenger"
	chartbuilder "paxboard/internal/chart"
	"paxboard/internal/errors"
)

// Filter query parameters
const (
	paramSurvived = "survived"
	paramClass    = "class"
	paramSex      = "sex"
	paramAgeMin   = "age_min"
	paramAgeMax   = "age_max"
	paramRows     = "rows"

	// paramFiltered marks a submitted filter form. Browsers omit unchecked
	// boxes entirely, so with this set an absent set parameter selects nothing.
	paramFiltered = "filtered"
)

var filterParams = []string{paramSurvived, paramClass, paramSex, paramAgeMin, paramAgeMax, paramFiltered}

// parseCriteria reads filter parameters. It returns nil when none is present,
// meaning every row. Parameters that are absent keep the value from base;
// present-but-empty sets select nothing.
func parseCriteria(q url.Values, base func() (passenger.Criteria, error)) (*passenger.Criteria, error) {
	present := false
	for _, p := range filterParams {
		if _, ok := q[p]; ok {
			present = true
			break
		}
	}
	if !present {
		return nil, nil
	}

	c, err := base()
	if err != nil {
		return nil, err
	}
	_, form := q[paramFiltered]

	if values, ok := listParam(q, paramSurvived, form); ok {
		c.Survived = values
	}
	if values, ok := listParam(q, paramSex, form); ok {
		c.Sexes = values
	}
	if values, ok := listParam(q, paramClass, form); ok {
		c.Classes = make([]int, 0, len(values))
		for _, v := range values {
			class, err := strconv.Atoi(v)
			if err != nil {
				return nil, errors.InvalidInput("class must be an integer, got " + strconv.Quote(v))
			}
			c.Classes = append(c.Classes, class)
		}
	}
	if c.AgeMin, err = floatParam(q, paramAgeMin, c.AgeMin); err != nil {
		return nil, err
	}
	if c.AgeMax, err = floatParam(q, paramAgeMax, c.AgeMax); err != nil {
		return nil, err
	}

	c = c.Normalize()
	return &c, nil
}

// listParam collects a repeatable, comma separated parameter. ok is false
// when the parameter is absent and absence means "keep the default".
func listParam(q url.Values, key string, form bool) ([]string, bool) {
	raw, ok := q[key]
	if !ok && !form {
		return nil, false
	}
	values := []string{}
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values, true
}

func floatParam(q url.Values, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.InvalidInput(key + " must be a number, got " + strconv.Quote(raw))
	}
	return f, nil
}

// intParam parses an optional integer; absent yields 0.
func intParam(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(key + " must be an integer, got " + strconv.Quote(raw))
	}
	return n, nil
}

// criteriaBody is a JSON criteria document. Fields left out keep the value
// from the base criteria; an explicit empty list selects nothing.
type criteriaBody struct {
	Survived *[]string `json:"survived"`
	Classes  *[]int    `json:"classes"`
	Sexes    *[]string `json:"sexes"`
	AgeMin   *float64  `json:"age_min"`
	AgeMax   *float64  `json:"age_max"`
}

func (b criteriaBody) empty() bool {
	return b.Survived == nil && b.Classes == nil && b.Sexes == nil && b.AgeMin == nil && b.AgeMax == nil
}

// merge overlays b on base. An empty body yields nil, meaning every row.
func (b criteriaBody) merge(base func() (passenger.Criteria, error)) (*passenger.Criteria, error) {
	if b.empty() {
		return nil, nil
	}
	c, err := base()
	if err != nil {
		return nil, err
	}
	if b.Survived != nil {
		c.Survived = *b.Survived
	}
	if b.Classes != nil {
		c.Classes = *b.Classes
	}
	if b.Sexes != nil {
		c.Sexes = *b.Sexes
	}
	if b.AgeMin != nil {
		c.AgeMin = *b.AgeMin
	}
	if b.AgeMax != nil {
		c.AgeMax = *b.AgeMax
	}
	c = c.Normalize()
	return &c, nil
}

// chartOptions reads the ad-hoc chart parameters.
func chartOptions(q url.Values) (app.ChartOptions, error) {
	bins, err := intParam(q, "bins")
	if err != nil {
		return app.ChartOptions{}, err
	}
	if bins < 0 || bins > chartbuilder.MaxBins {
		return app.ChartOptions{}, errors.InvalidInput(fmt.Sprintf("bins must be between 1 and %d, got %d", chartbuilder.MaxBins, bins))
	}
	rows, err := intParam(q, paramRows)
	if err != nil {
		return app.ChartOptions{}, err
	}
	return app.ChartOptions{
		Title:  q.Get("title"),
		Column: q.Get("column"),
		X:      q.Get("x"),
		Y:      q.Get("y"),
		Color:  q.Get("color"),
		Bins:   bins,
		Rows:   rows,
	}, nil
}

// filterQuery re-encodes the filter parameters of q, for links that must
// keep the current selection.
func filterQuery(q url.Values) string {
	out := url.Values{}
	for _, p := range append(filterParams, paramRows) {
		if v, ok := q[p]; ok {
			out[p] = v
		}
	}
	return out.Encode()
}
