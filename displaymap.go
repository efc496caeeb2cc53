// Package displaymap converts between a text buffer's logical coordinates
// and the coordinates painted on screen, after soft line-wrapping and
// collapsible folding.
//
// Three coordinate spaces are kept in sync: buffer positions (logical
// line/column), wrapped rows (after soft wrap), and display rows (after
// hiding rows inside collapsed folds). The middle space never crosses this
// package's boundary. All mutations refresh the wrap layer before the fold
// layer and leave every table consistent on return.
//
// A DisplayMap is owned by a single goroutine (typically the editor's
// UI-thread state) and is not safe for concurrent use.
package displaymap

import (
	"github.com/dshills/displaymap/internal/fold"
	"github.com/dshills/displaymap/internal/wrap"
)

// Measurer maps text to its rendered width. It is consumed only by the
// wrap layer.
type Measurer = wrap.Measurer

// CellMeasurer measures text in terminal cells; it is the default measurer.
type CellMeasurer = wrap.CellMeasurer

// DisplayMap is the public surface of the mapping engine. It owns the wrap
// index (which owns the line wrapper) and the fold index, and serializes
// mutation ordering between them.
type DisplayMap struct {
	wraps *wrap.Index
	folds *fold.Index
}

// Option configures a DisplayMap.
type Option func(*DisplayMap)

// WithWrapWidth sets the initial wrap width (0 = no wrap).
func WithWrapWidth(width int) Option {
	return func(m *DisplayMap) {
		m.wraps.SetWrapWidth(width)
	}
}

// WithTabWidth sets the initial tab width.
func WithTabWidth(width int) Option {
	return func(m *DisplayMap) {
		m.wraps.SetTabWidth(width)
	}
}

// WithWordWrap controls whether soft breaks prefer word boundaries.
func WithWordWrap(atWord bool) Option {
	return func(m *DisplayMap) {
		m.wraps.SetWordWrap(atWord)
	}
}

// WithMeasurer sets the text measurement capability.
func WithMeasurer(measurer Measurer) Option {
	return func(m *DisplayMap) {
		m.wraps.SetMeasurer(measurer)
	}
}

// New creates an empty display map. With no options, wrapping is disabled,
// tabs are 4 cells and text is measured in terminal cells.
func New(opts ...Option) *DisplayMap {
	m := &DisplayMap{
		wraps: wrap.NewIndex(nil),
		folds: fold.NewIndex(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.folds.Rebuild(m.wraps)
	return m
}

// SetText replaces the entire buffer content.
func (m *DisplayMap) SetText(lines []string) {
	m.wraps.SetText(lines)
	m.folds.Rebuild(m.wraps)
}

// OnTextChanged applies an edit replacing the half-open logical-line range
// [start, end) with newLines. Wrap geometry is recomputed only for the
// affected range; fold tables are fully rebuilt because fold membership can
// shift when line counts change.
func (m *DisplayMap) OnTextChanged(start, end int, newLines []string) {
	m.wraps.ApplyEdit(start, end, newLines)
	m.folds.Rebuild(m.wraps)
}

// OnLayoutChanged sets the wrap width (0 = no wrap) and rebuilds all
// layers. A layout-wide change has no smaller affected range.
func (m *DisplayMap) OnLayoutChanged(width int) {
	m.wraps.SetWrapWidth(width)
	m.folds.Rebuild(m.wraps)
}

// SetTabWidth sets the tab width and rebuilds all layers.
func (m *DisplayMap) SetTabWidth(width int) {
	m.wraps.SetTabWidth(width)
	m.folds.Rebuild(m.wraps)
}

// SetWordWrap controls word-boundary preference and rebuilds all layers.
func (m *DisplayMap) SetWordWrap(atWord bool) {
	m.wraps.SetWordWrap(atWord)
	m.folds.Rebuild(m.wraps)
}

// SetMeasurer replaces the measurement capability and rebuilds all layers.
func (m *DisplayMap) SetMeasurer(measurer Measurer) {
	m.wraps.SetMeasurer(measurer)
	m.folds.Rebuild(m.wraps)
}

// BufferPosToDisplayPos converts a buffer position to display space.
// Positions whose wrapped row is hidden inside an active fold normalize to
// the fold's first visible row at column 0. Out-of-range positions clamp.
func (m *DisplayMap) BufferPosToDisplayPos(p BufferPos) DisplayPos {
	wp := m.wraps.ToWrapPos(p.Line, p.Col)
	if row, ok := m.folds.WrapToDisplay(wp.Row); ok {
		return DisplayPos{Row: row, Col: wp.Col}
	}
	head := m.folds.NormalizeRow(wp.Row)
	row, _ := m.folds.WrapToDisplay(head)
	return DisplayPos{Row: row, Col: 0}
}

// DisplayPosToBufferPos converts a display position back to buffer space.
// Always defined: display rows are visible by construction, and
// out-of-range positions clamp.
func (m *DisplayMap) DisplayPosToBufferPos(p DisplayPos) BufferPos {
	wrapRow := m.folds.DisplayToWrap(p.Row)
	line, col := m.wraps.ToBufferPos(wrap.Pos{Row: wrapRow, Col: p.Col})
	return BufferPos{Line: line, Col: col}
}

// SetFoldCandidates replaces the advisory fold-candidate set. It does not
// itself hide anything.
func (m *DisplayMap) SetFoldCandidates(ranges []FoldRange) {
	converted := make([]fold.Range, len(ranges))
	for i, r := range ranges {
		converted[i] = fold.Range{Start: r.StartLine, End: r.EndLine}
	}
	m.folds.SetCandidates(converted)
}

// ToggleFold flips the collapsed state of the fold covering the given
// line. Returns false if no covering range exists or folding would overlap
// an active fold; state is unchanged in that case.
func (m *DisplayMap) ToggleFold(line int) bool {
	if !m.folds.Toggle(line) {
		return false
	}
	m.folds.Rebuild(m.wraps)
	return true
}

// SetFolded sets the collapsed state of the fold covering the given line,
// with the same rejection rule as ToggleFold. Returns true if the desired
// state holds on return.
func (m *DisplayMap) SetFolded(line int, folded bool) bool {
	if !m.folds.SetFolded(line, folded) {
		return false
	}
	m.folds.Rebuild(m.wraps)
	return true
}

// ClearFolds removes all active folds.
func (m *DisplayMap) ClearFolds() {
	m.folds.Clear()
	m.folds.Rebuild(m.wraps)
}

// IsFoldedAt returns true if the given line is inside an active fold.
func (m *DisplayMap) IsFoldedAt(line int) bool {
	return m.folds.IsFoldedAt(line)
}

// ActiveFolds returns the currently collapsed ranges, sorted by start line.
func (m *DisplayMap) ActiveFolds() []FoldRange {
	active := m.folds.ActiveFolds()
	out := make([]FoldRange, len(active))
	for i, r := range active {
		out[i] = FoldRange{StartLine: r.Start, EndLine: r.End}
	}
	return out
}

// DisplayRowCount returns the number of visible rows.
func (m *DisplayMap) DisplayRowCount() int {
	return m.folds.DisplayRowCount()
}

// BufferLineCount returns the number of logical lines in the buffer.
func (m *DisplayMap) BufferLineCount() int {
	return m.wraps.LineCount()
}

// LongestRowWidth returns the width in cells of the widest visual row,
// used to size horizontal scrolling.
func (m *DisplayMap) LongestRowWidth() int {
	return m.wraps.LongestRow()
}

// RowSpan describes the buffer text backing one visible row: the logical
// line and the half-open rune-column range of its segment. Folded marks
// the first row of a collapsed fold.
type RowSpan struct {
	Line     int
	StartCol int
	EndCol   int
	Folded   bool
}

// SpanForDisplayRow returns the buffer span painted on a display row, so
// renderers can slice line text per visible row without reaching into the
// inner layers. Out-of-range rows clamp.
func (m *DisplayMap) SpanForDisplayRow(row int) RowSpan {
	wrapRow := m.folds.DisplayToWrap(row)
	line := m.wraps.LineForRow(wrapRow)
	start, end := m.wraps.SegmentForRow(line, m.wraps.RowInLine(wrapRow))
	return RowSpan{
		Line:     line,
		StartCol: start,
		EndCol:   end,
		Folded:   m.isFoldHead(line, wrapRow),
	}
}

// LineText returns the text of a logical line, or "" if out of range.
func (m *DisplayMap) LineText(line int) string {
	return m.wraps.Line(line)
}

// isFoldHead reports whether the wrap row is the first row of an active
// fold.
func (m *DisplayMap) isFoldHead(line int, wrapRow int) bool {
	if wrapRow != m.wraps.FirstRowForLine(line) {
		return false
	}
	for _, r := range m.folds.ActiveFolds() {
		if r.Start == line {
			return true
		}
	}
	return false
}
