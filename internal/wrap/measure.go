package wrap

import "github.com/mattn/go-runewidth"

// Measurer maps text to its rendered width. The wrapper uses it for every
// sizing decision, so swapping the measurer (a font change, a different
// terminal width model) invalidates all wrap geometry.
type Measurer interface {
	// RuneWidth returns the display width of a single rune.
	// Control characters report 0; tabs are expanded by the wrapper
	// and never reach the measurer.
	RuneWidth(r rune) int

	// SpanWidth returns the display width of a span of text.
	SpanWidth(s string) int
}

// CellMeasurer measures text in terminal cells. Wide (CJK) runes occupy
// two cells, combining marks zero.
type CellMeasurer struct{}

// RuneWidth returns the cell width of a rune.
func (CellMeasurer) RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// SpanWidth returns the cell width of a string.
func (CellMeasurer) SpanWidth(s string) int {
	return runewidth.StringWidth(s)
}
