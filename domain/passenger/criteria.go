package passenger

import (
	"fmt"
	"math"
	"sort"
)

// Criteria is the conjunction of user-selected filters. An empty categorical
// set selects nothing, so the filtered table is empty.
type Criteria struct {
	Survived []string `json:"survived"` // labels or codes
	Classes  []int    `json:"classes"`
	Sexes    []string `json:"sexes"` // labels or codes
	AgeMin   float64  `json:"age_min"`
	AgeMax   float64  `json:"age_max"`
}

// AllCriteria selects every survival state, class and sex within [ageMin, ageMax].
func AllCriteria(ageMin, ageMax float64) Criteria {
	return Criteria{
		Survived: []string{LabelPerished, LabelSurvived},
		Classes:  append([]int(nil), Classes...),
		Sexes:    []string{"Female", "Male"},
		AgeMin:   ageMin,
		AgeMax:   ageMax,
	}
}

// Normalize maps codes to display labels and drops duplicates and values no
// row can hold. Dropped values cannot match anything, so the predicate is
// unchanged.
func (c Criteria) Normalize() Criteria {
	out := Criteria{AgeMin: c.AgeMin, AgeMax: c.AgeMax}

	out.Survived = normalizeLabels(c.Survived, SurvivedLabel)
	out.Sexes = normalizeLabels(c.Sexes, SexLabel)

	seen := make(map[int]bool)
	out.Classes = []int{}
	for _, class := range c.Classes {
		if _, ok := ParseClass(fmt.Sprint(class)); ok && !seen[class] {
			seen[class] = true
			out.Classes = append(out.Classes, class)
		}
	}
	sort.Ints(out.Classes)

	return out
}

// SelectsNothing reports whether some categorical set is empty or the age
// interval is inverted or undefined.
func (c Criteria) SelectsNothing() bool {
	n := c.Normalize()
	return len(n.Survived) == 0 || len(n.Classes) == 0 || len(n.Sexes) == 0 ||
		math.IsNaN(n.AgeMin) || math.IsNaN(n.AgeMax) || n.AgeMin > n.AgeMax
}

// Matches evaluates the predicate on a single record.
func (c Criteria) Matches(r Record) bool {
	n := c.Normalize()
	return containsString(n.Survived, r.SurvivedLabel()) &&
		containsInt(n.Classes, r.Class) &&
		containsString(n.Sexes, r.Sex) &&
		n.AgeMin <= r.Age && r.Age <= n.AgeMax
}

// Fingerprint returns the normalized criteria as a flat map for hashing.
func (c Criteria) Fingerprint() map[string]interface{} {
	n := c.Normalize()
	return map[string]interface{}{
		"survived": n.Survived,
		"classes":  n.Classes,
		"sexes":    n.Sexes,
		"age_min":  n.AgeMin,
		"age_max":  n.AgeMax,
	}
}

func normalizeLabels(values []string, label func(string) (string, bool)) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, v := range values {
		l, ok := label(v)
		if !ok || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
