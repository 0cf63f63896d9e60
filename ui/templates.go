package ui

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"paxboard/domain/report"
)

//go:embed templates/*.html
var templateFiles embed.FS

// parseTemplates parses the embedded page templates
func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"num": func(n report.Number) string {
			if !n.Defined() {
				return "n/a"
			}
			return strconv.FormatFloat(n.Float(), 'f', 2, 64)
		},
		"pct": func(part, total int) string {
			if total == 0 {
				return "0%"
			}
			return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(total))
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return "not loaded"
			}
			return t.Format("2006-01-02 15:04:05")
		},
		"add": func(a, b int) int { return a + b },
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return templates, nil
}
