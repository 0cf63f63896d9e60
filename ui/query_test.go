package ui

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paxboard/domain/passenger"
	"paxboard/internal/errors"
)

func baseCriteria() (passenger.Criteria, error) {
	return passenger.AllCriteria(0.42, 80), nil
}

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, c *passenger.Criteria)
	}{
		{"absent selects all", "rows=5", func(t *testing.T, c *passenger.Criteria) {
			assert.Nil(t, c)
		}},
		{"comma separated", "survived=1&class=1,2", func(t *testing.T, c *passenger.Criteria) {
			assert.Equal(t, []string{"Yes"}, c.Survived)
			assert.Equal(t, []int{1, 2}, c.Classes)
			assert.Equal(t, []string{"Female", "Male"}, c.Sexes)
			assert.Equal(t, 0.42, c.AgeMin)
		}},
		{"repeated", "sex=male&sex=FEMALE&sex=male", func(t *testing.T, c *passenger.Criteria) {
			assert.Equal(t, []string{"Female", "Male"}, c.Sexes)
		}},
		{"present but empty", "sex=", func(t *testing.T, c *passenger.Criteria) {
			assert.Empty(t, c.Sexes)
			assert.True(t, c.SelectsNothing())
		}},
		{"age bounds", "age_min=30&age_max=40", func(t *testing.T, c *passenger.Criteria) {
			assert.Equal(t, 30.0, c.AgeMin)
			assert.Equal(t, 40.0, c.AgeMax)
			assert.Len(t, c.Classes, 3)
		}},
		{"form omits unchecked sets", "filtered=1&class=3", func(t *testing.T, c *passenger.Criteria) {
			assert.Equal(t, []int{3}, c.Classes)
			assert.Empty(t, c.Survived)
			assert.Empty(t, c.Sexes)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			c, err := parseCriteria(q, baseCriteria)
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestParseCriteriaInvalid(t *testing.T) {
	for _, query := range []string{"class=first", "age_min=young", "age_max=1e"} {
		q, _ := url.ParseQuery(query)
		_, err := parseCriteria(q, baseCriteria)
		require.Error(t, err, query)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	}
}

func TestCriteriaBodyMerge(t *testing.T) {
	var body criteriaBody
	require.NoError(t, json.Unmarshal([]byte(`{"survived":["1"],"sexes":[]}`), &body))

	c, err := body.merge(baseCriteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes"}, c.Survived)
	assert.Equal(t, []int{1, 2, 3}, c.Classes)
	assert.Empty(t, c.Sexes)
	assert.Equal(t, 80.0, c.AgeMax)

	c, err = criteriaBody{}.merge(baseCriteria)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestChartOptionsBins(t *testing.T) {
	q, _ := url.ParseQuery("column=Age&bins=200")
	opts, err := chartOptions(q)
	require.NoError(t, err)
	assert.Equal(t, 200, opts.Bins)
	assert.Equal(t, "Age", opts.Column)

	for _, query := range []string{"bins=201", "bins=50000000", "bins=-1", "bins=many"} {
		q, _ := url.ParseQuery(query)
		_, err := chartOptions(q)
		require.Error(t, err, query)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	}
}

func TestFilterQueryKeepsFilterParams(t *testing.T) {
	q, _ := url.ParseQuery("sex=male&rows=3&bins=7&filtered=1")
	assert.Equal(t, "filtered=1&rows=3&sex=male", filterQuery(q))
}
