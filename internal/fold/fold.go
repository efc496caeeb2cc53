// Package fold projects wrapped rows onto the filtered set of visible rows
// by hiding rows inside collapsed ranges. The fold index references wrap
// output only through row indices supplied by a RowMapper; it must be
// rebuilt after any structural change upstream.
package fold

import "sort"

// Range is a half-open logical-line interval [Start, End) eligible to be
// collapsed.
type Range struct {
	Start int
	End   int
}

// Len returns the number of logical lines covered by the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains returns true if the given line is within the range.
func (r Range) Contains(line int) bool {
	return line >= r.Start && line < r.End
}

// Overlaps returns true if two ranges overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// RowMapper is the narrow view of the wrap layer the fold index rebuilds
// from. FirstRowForLine(LineCount()) must return the total row count.
type RowMapper interface {
	RowCount() int
	FirstRowForLine(line int) int
	LineCount() int
}

// rowSpan caches the wrapped-row extent of one active fold.
type rowSpan struct {
	first int // fold's first wrapped row (stays visible)
	last  int // first wrapped row past the fold (exclusive)
}

// Index tracks fold candidates and active folds and maintains the
// display-row tables.
type Index struct {
	// candidates are advisory, externally supplied, sorted by start.
	// Candidates may overlap each other.
	candidates []Range

	// active folds are currently collapsed; sorted, never overlapping.
	active []Range

	// spans caches wrapped-row extents of active folds, parallel to active.
	spans []rowSpan

	// visible maps display row -> wrap row.
	visible []int

	// toDisplay maps wrap row -> display row, -1 when hidden.
	toDisplay []int
}

// NewIndex creates an empty fold index.
func NewIndex() *Index {
	return &Index{}
}

// SetCandidates replaces the advisory candidate set. It does not change
// which rows are hidden. Degenerate ranges are dropped.
func (ix *Index) SetCandidates(ranges []Range) {
	ix.candidates = ix.candidates[:0]
	for _, r := range ranges {
		if r.Start >= 0 && r.End > r.Start {
			ix.candidates = append(ix.candidates, r)
		}
	}
	sort.Slice(ix.candidates, func(i, j int) bool {
		if ix.candidates[i].Start != ix.candidates[j].Start {
			return ix.candidates[i].Start < ix.candidates[j].Start
		}
		return ix.candidates[i].End < ix.candidates[j].End
	})
}

// Candidates returns the current candidate set.
func (ix *Index) Candidates() []Range {
	return ix.candidates
}

// ActiveFolds returns the currently collapsed ranges.
func (ix *Index) ActiveFolds() []Range {
	return ix.active
}

// Toggle flips the collapsed state of the fold covering the given line.
// An active fold covering the line is unfolded; otherwise the covering
// candidate is folded. Returns false if no covering range exists or if
// folding would overlap an existing active fold.
func (ix *Index) Toggle(line int) bool {
	if i := ix.activeAt(line); i >= 0 {
		ix.deactivate(i)
		return true
	}
	r, ok := ix.candidateAt(line)
	if !ok {
		return false
	}
	return ix.activate(r)
}

// SetFolded sets the collapsed state of the fold covering the given line.
// Returns true if the desired state holds on return, false if no covering
// range exists or folding would overlap an active fold.
func (ix *Index) SetFolded(line int, folded bool) bool {
	i := ix.activeAt(line)
	if folded {
		if i >= 0 {
			return true
		}
		r, ok := ix.candidateAt(line)
		if !ok {
			return false
		}
		return ix.activate(r)
	}
	if i >= 0 {
		ix.deactivate(i)
	}
	return true
}

// Clear removes all active folds.
func (ix *Index) Clear() {
	ix.active = ix.active[:0]
}

// IsFoldedAt returns true if the given line is inside an active fold.
func (ix *Index) IsFoldedAt(line int) bool {
	return ix.activeAt(line) >= 0
}

// Rebuild reconstructs the visible-row tables from the current wrap
// geometry. Active folds referencing lines no longer in the buffer are
// clamped or dropped silently. O(total wrapped rows).
func (ix *Index) Rebuild(m RowMapper) {
	total := m.RowCount()
	lineCount := m.LineCount()

	kept := ix.active[:0]
	ix.spans = ix.spans[:0]
	hidden := make([]bool, total)
	for _, f := range ix.active {
		if f.Start >= lineCount || f.Start < 0 {
			continue
		}
		if f.End > lineCount {
			f.End = lineCount
		}
		if f.End <= f.Start {
			continue
		}
		span := rowSpan{
			first: m.FirstRowForLine(f.Start),
			last:  m.FirstRowForLine(f.End),
		}
		kept = append(kept, f)
		ix.spans = append(ix.spans, span)
		for r := span.first + 1; r < span.last; r++ {
			hidden[r] = true
		}
	}
	ix.active = kept

	ix.visible = make([]int, 0, total)
	ix.toDisplay = make([]int, total)
	for r := 0; r < total; r++ {
		if hidden[r] {
			ix.toDisplay[r] = -1
			continue
		}
		ix.toDisplay[r] = len(ix.visible)
		ix.visible = append(ix.visible, r)
	}
}

// DisplayRowCount returns the number of visible rows.
func (ix *Index) DisplayRowCount() int {
	return len(ix.visible)
}

// HiddenRowCount returns the number of rows hidden by active folds.
func (ix *Index) HiddenRowCount() int {
	return len(ix.toDisplay) - len(ix.visible)
}

// DisplayToWrap converts a display row to its wrap row. Out-of-range rows
// clamp to the nearest visible row.
func (ix *Index) DisplayToWrap(row int) int {
	if len(ix.visible) == 0 {
		return 0
	}
	if row < 0 {
		row = 0
	}
	if row >= len(ix.visible) {
		row = len(ix.visible) - 1
	}
	return ix.visible[row]
}

// WrapToDisplay converts a wrap row to its display row. The second return
// is false when the row is hidden inside an active fold; callers normalize
// hidden rows to the covering fold's first row.
func (ix *Index) WrapToDisplay(row int) (int, bool) {
	if len(ix.toDisplay) == 0 {
		return 0, false
	}
	if row < 0 {
		row = 0
	}
	if row >= len(ix.toDisplay) {
		row = len(ix.toDisplay) - 1
	}
	d := ix.toDisplay[row]
	if d < 0 {
		return 0, false
	}
	return d, true
}

// NormalizeRow returns the covering fold's first wrap row for hidden rows,
// and the row itself for visible rows.
func (ix *Index) NormalizeRow(row int) int {
	for _, span := range ix.spans {
		if row > span.first && row < span.last {
			return span.first
		}
	}
	return row
}

// activeAt returns the index of the active fold covering the line, or -1.
func (ix *Index) activeAt(line int) int {
	for i, r := range ix.active {
		if r.Contains(line) {
			return i
		}
	}
	return -1
}

// candidateAt finds the candidate covering the line: an exact start match
// wins, otherwise the smallest (innermost) covering candidate.
func (ix *Index) candidateAt(line int) (Range, bool) {
	best := -1
	for i, r := range ix.candidates {
		if !r.Contains(line) {
			continue
		}
		if r.Start == line {
			return r, true
		}
		if best < 0 || r.Len() < ix.candidates[best].Len() {
			best = i
		}
	}
	if best < 0 {
		return Range{}, false
	}
	return ix.candidates[best], true
}

// activate collapses a range, rejecting overlap with existing active folds.
func (ix *Index) activate(r Range) bool {
	for _, a := range ix.active {
		if a.Overlaps(r) {
			return false
		}
	}
	i := sort.Search(len(ix.active), func(i int) bool {
		return ix.active[i].Start >= r.Start
	})
	ix.active = append(ix.active, Range{})
	copy(ix.active[i+1:], ix.active[i:])
	ix.active[i] = r
	return true
}

// deactivate removes the active fold at index i.
func (ix *Index) deactivate(i int) {
	ix.active = append(ix.active[:i], ix.active[i+1:]...)
}
