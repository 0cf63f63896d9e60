package passenger

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Survival display labels
const (
	LabelSurvived = "Yes"
	LabelPerished = "No"
)

// Valid cabin classes, in order
var Classes = []int{1, 2, 3}

// SurvivedLabel maps a survival code or label to its display label. It accepts
// 0/1, yes/no and true/false in any case.
func SurvivedLabel(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "1.0", "yes", "true", "y":
		return LabelSurvived, true
	case "0", "0.0", "no", "false", "n":
		return LabelPerished, true
	}
	return "", false
}

// SexLabel maps a sex code to its display label ("male" -> "Male").
func SexLabel(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	// Casers keep state; one per call keeps SexLabel safe across goroutines.
	return cases.Title(language.English).String(strings.ToLower(value)), true
}

// ParseClass parses a cabin class code and checks it is one of Classes.
func ParseClass(value string) (int, bool) {
	value = strings.TrimSpace(value)
	class, err := strconv.Atoi(value)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		class = int(f)
	}
	for _, c := range Classes {
		if c == class {
			return class, true
		}
	}
	return 0, false
}
