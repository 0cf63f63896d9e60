package chart

// Kind names a chart shape
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindScatter   Kind = "scatter"
	KindPie       Kind = "pie"
	KindBar       Kind = "bar"
)

// IsValid reports whether k is a known chart kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindHistogram, KindScatter, KindPie, KindBar:
		return true
	}
	return false
}

// Point is one plotted value. Category charts set Label and use X as the
// category position; histograms of numeric columns set X to the bin's lower
// edge and Width to its width.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width,omitempty"`
	Label string  `json:"label,omitempty"`
	Hover string  `json:"hover,omitempty"`
}

// Series is a named group of points, one per color category.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Spec is everything a renderer needs to draw a chart: the (table, x, y,
// color) tuple resolved into plain values.
type Spec struct {
	Kind   Kind     `json:"kind"`
	Title  string   `json:"title"`
	X      string   `json:"x"`
	Y      string   `json:"y,omitempty"`
	Color  string   `json:"color,omitempty"`
	Series []Series `json:"series"`
}

// PointCount returns the number of points across all series.
func (s Spec) PointCount() int {
	n := 0
	for _, series := range s.Series {
		n += len(series.Points)
	}
	return n
}

// IsEmpty reports whether the chart has nothing to draw.
func (s Spec) IsEmpty() bool { return s.PointCount() == 0 }
