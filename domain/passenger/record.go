package passenger

import (
	"fmt"

	"paxboard/domain/dataset"
)

// Canonical column names of a loaded passenger table
const (
	ColID       = "PassengerId"
	ColSurvived = "Survived"
	ColClass    = "Pclass"
	ColName     = "Name"
	ColSex      = "Sex"
	ColAge      = "Age"
	ColSibSp    = "Siblings/Spouses Aboard"
	ColFare     = "Fare"
	ColHover    = "Hover"
)

// Aliases maps alternative source headers onto canonical names. The two
// common Titanic exports differ only in these headers.
var Aliases = map[string]string{
	"passengerid":             ColID,
	"id":                      ColID,
	"survived":                ColSurvived,
	"pclass":                  ColClass,
	"class":                   ColClass,
	"name":                    ColName,
	"sex":                     ColSex,
	"age":                     ColAge,
	"sibsp":                   ColSibSp,
	"siblings/spouses aboard": ColSibSp,
	"fare":                    ColFare,
}

// RequiredColumns must be present in every source. The identifier is
// synthesized when absent and Hover is always derived.
var RequiredColumns = []string{ColSurvived, ColClass, ColSex, ColAge, ColFare, ColName, ColSibSp}

// Schema returns the declared schema of a normalized passenger table.
func Schema() dataset.Schema {
	return dataset.Schema{Columns: []dataset.Column{
		{Name: ColID, Type: dataset.TypeNumeric},
		{Name: ColSurvived, Type: dataset.TypeCategorical},
		{Name: ColClass, Type: dataset.TypeCategorical, Ordered: true},
		{Name: ColName, Type: dataset.TypeText},
		{Name: ColSex, Type: dataset.TypeCategorical},
		{Name: ColAge, Type: dataset.TypeNumeric},
		{Name: ColSibSp, Type: dataset.TypeNumeric},
		{Name: ColFare, Type: dataset.TypeNumeric},
		{Name: ColHover, Type: dataset.TypeText},
	}}
}

// Record is one passenger row after normalization
type Record struct {
	ID              int     `json:"id"`
	Survived        bool    `json:"survived"`
	Class           int     `json:"class"`
	Name            string  `json:"name"`
	Sex             string  `json:"sex"` // display label
	Age             float64 `json:"age"`
	SiblingsSpouses int     `json:"siblings_spouses"`
	Fare            float64 `json:"fare"` // NaN when the source left it blank
	Hover           string  `json:"hover"`
}

// SurvivedLabel returns the display label of the survival flag.
func (r Record) SurvivedLabel() string {
	if r.Survived {
		return LabelSurvived
	}
	return LabelPerished
}

// HoverText builds the display metadata shown next to a plotted passenger.
func HoverText(name, sex string, age float64, class int) string {
	return fmt.Sprintf("%s (%s, age %g, class %d)", name, sex, age, class)
}
