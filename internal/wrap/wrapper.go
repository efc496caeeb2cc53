// Package wrap computes soft line wrapping for buffer text and maintains the
// cumulative tables that convert between buffer positions and wrapped-row
// positions. Wrapped-row coordinates never leave this package's callers; the
// facade translates them to display coordinates.
package wrap

// Pos is a position in wrapped-row space. Row is a 0-indexed wrapped row
// across the whole buffer; Col is a rune offset within that row's segment.
type Pos struct {
	Row int
	Col int
}

// lineWrap holds the wrap geometry of a single logical line.
type lineWrap struct {
	// breaks are the rune columns where soft breaks occur, ascending.
	// A line with no breaks occupies one visual row.
	breaks []int

	// width is the widest segment of the line in measured cells.
	width int
}

// Wrapper computes per-line wrap geometry. A wrap width of 0 disables
// wrapping. Tabs expand to the next tab stop relative to the segment-local
// visual column.
type Wrapper struct {
	lines      []string
	wraps      []lineWrap
	wrapWidth  int
	tabWidth   int
	wrapAtWord bool
	measurer   Measurer

	longest      int
	longestDirty bool
}

// NewWrapper creates a wrapper with no wrap width and the given measurer.
// A nil measurer falls back to terminal cell measurement.
func NewWrapper(m Measurer) *Wrapper {
	if m == nil {
		m = CellMeasurer{}
	}
	return &Wrapper{
		tabWidth:   4,
		wrapAtWord: true,
		measurer:   m,
	}
}

// SetText replaces the entire content and recomputes all wrap geometry.
func (w *Wrapper) SetText(lines []string) {
	w.lines = make([]string, len(lines))
	copy(w.lines, lines)
	w.recomputeAll()
}

// ApplyEdit replaces the half-open line range [start, end) with newLines and
// recomputes wrap geometry only for the inserted lines.
func (w *Wrapper) ApplyEdit(start, end int, newLines []string) {
	if start < 0 {
		start = 0
	}
	if start > len(w.lines) {
		start = len(w.lines)
	}
	if end < start {
		end = start
	}
	if end > len(w.lines) {
		end = len(w.lines)
	}

	lines := make([]string, 0, len(w.lines)-(end-start)+len(newLines))
	lines = append(lines, w.lines[:start]...)
	lines = append(lines, newLines...)
	lines = append(lines, w.lines[end:]...)
	w.lines = lines

	wraps := make([]lineWrap, 0, len(lines))
	wraps = append(wraps, w.wraps[:start]...)
	for _, text := range newLines {
		wraps = append(wraps, w.computeLine(text))
	}
	wraps = append(wraps, w.wraps[end:]...)
	w.wraps = wraps
	w.longestDirty = true
}

// WrapWidth returns the current wrap width (0 = no wrap).
func (w *Wrapper) WrapWidth() int {
	return w.wrapWidth
}

// SetWrapWidth sets the wrap width and recomputes all wrap geometry.
// A width of 0 or less disables wrapping.
func (w *Wrapper) SetWrapWidth(width int) {
	if width < 0 {
		width = 0
	}
	if width == w.wrapWidth {
		return
	}
	w.wrapWidth = width
	w.recomputeAll()
}

// TabWidth returns the current tab width.
func (w *Wrapper) TabWidth() int {
	return w.tabWidth
}

// SetTabWidth sets the tab width and recomputes all wrap geometry.
func (w *Wrapper) SetTabWidth(width int) {
	if width < 1 {
		width = 1
	}
	if width == w.tabWidth {
		return
	}
	w.tabWidth = width
	w.recomputeAll()
}

// SetWordWrap controls whether breaks prefer word boundaries.
func (w *Wrapper) SetWordWrap(atWord bool) {
	if atWord == w.wrapAtWord {
		return
	}
	w.wrapAtWord = atWord
	w.recomputeAll()
}

// SetMeasurer replaces the measurement capability and recomputes all wrap
// geometry. A measurement change has no smaller affected range.
func (w *Wrapper) SetMeasurer(m Measurer) {
	if m == nil {
		m = CellMeasurer{}
	}
	w.measurer = m
	w.recomputeAll()
}

// LineCount returns the number of logical lines.
func (w *Wrapper) LineCount() int {
	return len(w.lines)
}

// Line returns the text of a logical line, or "" if out of range.
func (w *Wrapper) Line(line int) string {
	if line < 0 || line >= len(w.lines) {
		return ""
	}
	return w.lines[line]
}

// LineLen returns the length of a logical line in runes.
func (w *Wrapper) LineLen(line int) int {
	if line < 0 || line >= len(w.lines) {
		return 0
	}
	n := 0
	for range w.lines[line] {
		n++
	}
	return n
}

// RowCountForLine returns the number of visual rows the line occupies.
// Empty lines occupy exactly one row. Out-of-range lines report 0.
func (w *Wrapper) RowCountForLine(line int) int {
	if line < 0 || line >= len(w.wraps) {
		return 0
	}
	return len(w.wraps[line].breaks) + 1
}

// LongestRow returns the width in cells of the widest visual row, used to
// size horizontal scrolling.
func (w *Wrapper) LongestRow() int {
	if w.longestDirty {
		w.longest = 0
		for i := range w.wraps {
			if w.wraps[i].width > w.longest {
				w.longest = w.wraps[i].width
			}
		}
		w.longestDirty = false
	}
	return w.longest
}

// PosInLine converts a rune column within a logical line to its wrapped row
// (relative to the line's first row) and the column within that row.
// Out-of-range inputs clamp to the nearest valid boundary.
func (w *Wrapper) PosInLine(line, col int) (row, colInRow int) {
	line = w.clampLine(line)
	if line < 0 {
		return 0, 0
	}
	col = clamp(col, 0, w.LineLen(line))
	breaks := w.wraps[line].breaks

	// Number of breaks at or before col; a column exactly on a break
	// belongs to the following row.
	row = searchInts(breaks, col+1)
	if row == 0 {
		return 0, col
	}
	return row, col - breaks[row-1]
}

// ColInLine converts a line-relative (row, colInRow) back to a rune column
// within the logical line. Out-of-range inputs clamp.
func (w *Wrapper) ColInLine(line, row, colInRow int) int {
	line = w.clampLine(line)
	if line < 0 {
		return 0
	}
	start, end := w.SegmentForRow(line, row)
	return clamp(start+colInRow, start, end)
}

// SegmentForRow returns the rune column bounds [start, end) of one visual
// row of a line. The row is clamped to the line's row count.
func (w *Wrapper) SegmentForRow(line, row int) (start, end int) {
	line = w.clampLine(line)
	if line < 0 {
		return 0, 0
	}
	breaks := w.wraps[line].breaks
	row = clamp(row, 0, len(breaks))
	if row > 0 {
		start = breaks[row-1]
	}
	end = w.LineLen(line)
	if row < len(breaks) {
		end = breaks[row]
	}
	return start, end
}

// recomputeAll recomputes wrap geometry for every line.
func (w *Wrapper) recomputeAll() {
	w.wraps = make([]lineWrap, len(w.lines))
	for i, text := range w.lines {
		w.wraps[i] = w.computeLine(text)
	}
	w.longestDirty = true
}

// computeLine computes the wrap geometry of a single line with a greedy
// forward scan. When the next rune would exceed the wrap width, the line
// breaks at the last word boundary in the segment if one exists, otherwise
// hard-breaks before the rune. Every segment holds at least one rune.
func (w *Wrapper) computeLine(text string) lineWrap {
	if w.wrapWidth <= 0 {
		return lineWrap{width: w.segmentWidth([]rune(text))}
	}

	runes := []rune(text)
	var lw lineWrap
	segStart := 0
	visCol := 0
	lastBoundary := -1 // rune index just past the most recent space

	for i := 0; i < len(runes); {
		r := runes[i]
		adv := w.advance(r, visCol)

		if visCol+adv > w.wrapWidth && i > segStart {
			bp := i
			if w.wrapAtWord && lastBoundary > segStart {
				bp = lastBoundary
			}
			lw.breaks = append(lw.breaks, bp)
			segWidth := w.segmentWidth(runes[segStart:bp])
			if segWidth > lw.width {
				lw.width = segWidth
			}
			segStart = bp
			i = bp
			visCol = 0
			lastBoundary = -1
			continue
		}

		if r == ' ' {
			lastBoundary = i + 1
		}
		visCol += adv
		i++
	}

	if visCol > lw.width {
		lw.width = visCol
	}
	return lw
}

// segmentWidth measures a run of runes with segment-local tab stops.
func (w *Wrapper) segmentWidth(runes []rune) int {
	visCol := 0
	for _, r := range runes {
		visCol += w.advance(r, visCol)
	}
	return visCol
}

// advance returns the width a rune adds at the given visual column.
func (w *Wrapper) advance(r rune, visCol int) int {
	if r == '\t' {
		return w.tabWidth - (visCol % w.tabWidth)
	}
	return w.measurer.RuneWidth(r)
}

// clampLine clamps a line index into range, or returns -1 for empty content.
func (w *Wrapper) clampLine(line int) int {
	if len(w.lines) == 0 {
		return -1
	}
	return clamp(line, 0, len(w.lines)-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// searchInts returns the number of elements in a (sorted ascending) that are
// strictly less than v.
func searchInts(a []int, v int) int {
	lo, hi := 0, len(a)
	for lo < hi {
		mid := (lo + hi) / 2
		if a[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
