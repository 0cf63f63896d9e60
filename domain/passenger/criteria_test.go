package passenger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriteriaNormalize(t *testing.T) {
	c := Criteria{
		Survived: []string{"1", "Yes", "maybe"},
		Classes:  []int{3, 1, 3, 7},
		Sexes:    []string{"male", "Female", "MALE"},
		AgeMin:   0,
		AgeMax:   80,
	}

	n := c.Normalize()
	assert.Equal(t, []string{LabelSurvived}, n.Survived)
	assert.Equal(t, []int{1, 3}, n.Classes)
	assert.Equal(t, []string{"Female", "Male"}, n.Sexes)
	assert.Equal(t, 0.0, n.AgeMin)
	assert.Equal(t, 80.0, n.AgeMax)
}

func TestCriteriaSelectsNothing(t *testing.T) {
	all := AllCriteria(0, 80)
	assert.False(t, all.SelectsNothing())

	noSex := all
	noSex.Sexes = nil
	assert.True(t, noSex.SelectsNothing())

	unknownOnly := all
	unknownOnly.Classes = []int{9}
	assert.True(t, unknownOnly.SelectsNothing())

	inverted := AllCriteria(40, 30)
	assert.True(t, inverted.SelectsNothing())

	undefined := AllCriteria(math.NaN(), 30)
	assert.True(t, undefined.SelectsNothing())
}

func TestCriteriaMatches(t *testing.T) {
	first := Record{Age: 22, Fare: 7.25, Sex: "Male", Survived: false, Class: 3}
	second := Record{Age: 38, Fare: 71.28, Sex: "Female", Survived: true, Class: 1}

	c := Criteria{
		Survived: []string{"1"},
		Classes:  []int{1, 2, 3},
		Sexes:    []string{"male", "female"},
		AgeMin:   0,
		AgeMax:   80,
	}
	assert.False(t, c.Matches(first))
	assert.True(t, c.Matches(second))

	// bounds are inclusive
	c.AgeMin, c.AgeMax = 38, 38
	assert.True(t, c.Matches(second))
}

func TestCriteriaFingerprintIsNormalized(t *testing.T) {
	a := Criteria{Survived: []string{"1", "0"}, Classes: []int{2, 1}, Sexes: []string{"male"}, AgeMax: 80}
	b := Criteria{Survived: []string{"No", "Yes"}, Classes: []int{1, 2}, Sexes: []string{"Male"}, AgeMax: 80}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}
