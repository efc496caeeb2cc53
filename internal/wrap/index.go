package wrap

// Index maintains cumulative wrapped-row counts over a Wrapper so that
// buffer-line to wrapped-row conversions run in constant or logarithmic
// time. The Index exclusively owns its Wrapper; mutations go through the
// Index so the cumulative table is never stale.
type Index struct {
	wrapper *Wrapper

	// firstRow[i] is the wrapped row of the first visual row of line i.
	// firstRow[lineCount] is the total wrapped-row count. Monotonic.
	firstRow []int
}

// NewIndex creates an index over a fresh wrapper.
func NewIndex(m Measurer) *Index {
	return &Index{
		wrapper:  NewWrapper(m),
		firstRow: []int{0},
	}
}

// SetText replaces the entire content.
func (ix *Index) SetText(lines []string) {
	ix.wrapper.SetText(lines)
	ix.refreshFrom(0)
}

// ApplyEdit replaces the line range [start, end) with newLines. Cumulative
// entries before start are unaffected and are not recomputed.
func (ix *Index) ApplyEdit(start, end int, newLines []string) {
	ix.wrapper.ApplyEdit(start, end, newLines)
	if start < 0 {
		start = 0
	}
	ix.refreshFrom(start)
}

// SetWrapWidth sets the wrap width (0 = no wrap) and rebuilds the table.
func (ix *Index) SetWrapWidth(width int) {
	ix.wrapper.SetWrapWidth(width)
	ix.refreshFrom(0)
}

// SetTabWidth sets the tab width and rebuilds the table.
func (ix *Index) SetTabWidth(width int) {
	ix.wrapper.SetTabWidth(width)
	ix.refreshFrom(0)
}

// SetWordWrap controls word-boundary preference and rebuilds the table.
func (ix *Index) SetWordWrap(atWord bool) {
	ix.wrapper.SetWordWrap(atWord)
	ix.refreshFrom(0)
}

// SetMeasurer replaces the measurement capability and rebuilds the table.
func (ix *Index) SetMeasurer(m Measurer) {
	ix.wrapper.SetMeasurer(m)
	ix.refreshFrom(0)
}

// ToWrapPos converts a buffer position to a wrapped-row position.
// Out-of-range positions clamp to the nearest valid boundary.
func (ix *Index) ToWrapPos(line, col int) Pos {
	if ix.wrapper.LineCount() == 0 {
		return Pos{}
	}
	line = clamp(line, 0, ix.wrapper.LineCount()-1)
	rowInLine, colInRow := ix.wrapper.PosInLine(line, col)
	return Pos{Row: ix.firstRow[line] + rowInLine, Col: colInRow}
}

// ToBufferPos converts a wrapped-row position back to a buffer position.
// Out-of-range positions clamp.
func (ix *Index) ToBufferPos(p Pos) (line, col int) {
	if ix.wrapper.LineCount() == 0 {
		return 0, 0
	}
	line = ix.LineForRow(p.Row)
	rowInLine := clamp(p.Row, ix.firstRow[line], ix.firstRow[line+1]-1) - ix.firstRow[line]
	return line, ix.wrapper.ColInLine(line, rowInLine, max(p.Col, 0))
}

// FirstRowForLine returns the wrapped row of a line's first visual row.
func (ix *Index) FirstRowForLine(line int) int {
	n := ix.wrapper.LineCount()
	if n == 0 {
		return 0
	}
	return ix.firstRow[clamp(line, 0, n)]
}

// LineForRow returns the logical line owning a wrapped row, by binary
// search over the cumulative table. Out-of-range rows clamp.
func (ix *Index) LineForRow(row int) int {
	n := ix.wrapper.LineCount()
	if n == 0 {
		return 0
	}
	row = clamp(row, 0, ix.firstRow[n]-1)
	// Largest line whose first row is <= row.
	return clamp(searchInts(ix.firstRow, row+1)-1, 0, n-1)
}

// RowCount returns the total number of wrapped rows.
func (ix *Index) RowCount() int {
	return ix.firstRow[len(ix.firstRow)-1]
}

// LineCount returns the number of logical lines.
func (ix *Index) LineCount() int {
	return ix.wrapper.LineCount()
}

// RowCountForLine returns the number of visual rows a line occupies.
func (ix *Index) RowCountForLine(line int) int {
	return ix.wrapper.RowCountForLine(line)
}

// SegmentForRow returns the rune column bounds of one visual row of a line.
func (ix *Index) SegmentForRow(line, rowInLine int) (start, end int) {
	return ix.wrapper.SegmentForRow(line, rowInLine)
}

// RowInLine returns a wrapped row's index relative to its line's first row.
func (ix *Index) RowInLine(row int) int {
	line := ix.LineForRow(row)
	n := ix.wrapper.LineCount()
	if n == 0 {
		return 0
	}
	return clamp(row, ix.firstRow[line], ix.firstRow[line+1]-1) - ix.firstRow[line]
}

// Line returns the text of a logical line.
func (ix *Index) Line(line int) string {
	return ix.wrapper.Line(line)
}

// LongestRow returns the width in cells of the widest visual row.
func (ix *Index) LongestRow() int {
	return ix.wrapper.LongestRow()
}

// refreshFrom recomputes cumulative entries from line start onward. Entries
// for earlier lines are unchanged by construction: a line's first wrapped
// row depends only on the row counts of the lines before it.
func (ix *Index) refreshFrom(start int) {
	n := ix.wrapper.LineCount()
	if start > n {
		start = n
	}
	if start >= len(ix.firstRow) {
		start = len(ix.firstRow) - 1
	}
	table := make([]int, n+1)
	copy(table, ix.firstRow[:start+1])
	for i := start; i < n; i++ {
		table[i+1] = table[i] + ix.wrapper.RowCountForLine(i)
	}
	ix.firstRow = table
}
