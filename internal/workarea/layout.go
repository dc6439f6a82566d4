package workarea

import (
	"math"

	"github.com/mattn/go-runewidth"
)

// Rect is a tab's placement in strip cells
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether the point lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Metrics sizes tabs before scaling
type Metrics struct {
	BaseHeight       int
	CloseButtonWidth int
	MinWidth         int
	EditedMarker     string
}

// DefaultMetrics suits a terminal strip: one row high, " x" close control
func DefaultMetrics() Metrics {
	return Metrics{
		BaseHeight:       1,
		CloseButtonWidth: 2,
		MinWidth:         4,
		EditedMarker:     "*",
	}
}

func scaled(v int, scale float64) int {
	return int(math.Ceil(float64(v) * scale))
}

// tabWidth measures the label in display cells so wide runes count double
func (m Metrics) tabWidth(t *Tab, scale float64) int {
	w := runewidth.StringWidth(t.DisplayName())
	if t.closeShown {
		w += m.CloseButtonWidth
	}
	if w < m.MinWidth {
		w = m.MinWidth
	}
	return scaled(w, scale)
}

// layout places tabs left to right. X is the running sum of widths.
func (m Metrics) layout(tabs []*Tab, scale float64) []Rect {
	rects := make([]Rect, len(tabs))
	height := scaled(m.BaseHeight, scale)
	x := 0
	for i, t := range tabs {
		w := m.tabWidth(t, scale)
		rects[i] = Rect{X: x, Y: 0, Width: w, Height: height}
		x += w
	}
	return rects
}
