package fold

import "testing"

// stubMapper provides a fixed rows-per-line wrap geometry.
type stubMapper struct {
	rowsPerLine []int
}

func (m stubMapper) LineCount() int {
	return len(m.rowsPerLine)
}

func (m stubMapper) FirstRowForLine(line int) int {
	if line > len(m.rowsPerLine) {
		line = len(m.rowsPerLine)
	}
	sum := 0
	for i := 0; i < line; i++ {
		sum += m.rowsPerLine[i]
	}
	return sum
}

func (m stubMapper) RowCount() int {
	return m.FirstRowForLine(len(m.rowsPerLine))
}

// flat returns a mapper with one row per line.
func flat(lines int) stubMapper {
	rows := make([]int, lines)
	for i := range rows {
		rows[i] = 1
	}
	return stubMapper{rowsPerLine: rows}
}

func TestIndexNoFolds(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild(flat(5))

	if got := ix.DisplayRowCount(); got != 5 {
		t.Fatalf("expected 5 display rows, got %d", got)
	}
	for row := 0; row < 5; row++ {
		if got := ix.DisplayToWrap(row); got != row {
			t.Errorf("DisplayToWrap(%d): expected identity, got %d", row, got)
		}
		d, visible := ix.WrapToDisplay(row)
		if !visible || d != row {
			t.Errorf("WrapToDisplay(%d): expected (%d, true), got (%d, %v)", row, row, d, visible)
		}
	}
}

func TestIndexFoldHidesInteriorRows(t *testing.T) {
	m := flat(6)
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 1, End: 4}})

	if !ix.Toggle(1) {
		t.Fatal("expected fold at line 1 to succeed")
	}
	ix.Rebuild(m)

	// Lines 2 and 3 are hidden; line 1's row stays visible.
	if got := ix.DisplayRowCount(); got != 4 {
		t.Fatalf("expected 4 display rows, got %d", got)
	}
	if got := ix.HiddenRowCount(); got != 2 {
		t.Errorf("expected 2 hidden rows, got %d", got)
	}
	if _, visible := ix.WrapToDisplay(2); visible {
		t.Error("row 2 should be hidden")
	}
	if _, visible := ix.WrapToDisplay(3); visible {
		t.Error("row 3 should be hidden")
	}
	d, visible := ix.WrapToDisplay(4)
	if !visible || d != 2 {
		t.Errorf("row 4: expected display row 2, got (%d, %v)", d, visible)
	}
}

func TestIndexFoldHidesWrappedContinuations(t *testing.T) {
	// Line 1 wraps into 3 rows; folding [1,3) keeps only its first row.
	m := stubMapper{rowsPerLine: []int{1, 3, 2, 1}}
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 1, End: 3}})

	if !ix.Toggle(1) {
		t.Fatal("expected fold to succeed")
	}
	ix.Rebuild(m)

	// Hidden: line 1's rows 2,3 and line 2's rows 4,5.
	if got := ix.HiddenRowCount(); got != 4 {
		t.Errorf("expected 4 hidden rows, got %d", got)
	}
	if got := ix.DisplayRowCount(); got != 3 {
		t.Errorf("expected 3 display rows, got %d", got)
	}
	for _, row := range []int{2, 3, 4, 5} {
		if got := ix.NormalizeRow(row); got != 1 {
			t.Errorf("NormalizeRow(%d): expected fold head 1, got %d", row, got)
		}
	}
	if got := ix.NormalizeRow(6); got != 6 {
		t.Errorf("NormalizeRow(6): visible row should be unchanged, got %d", got)
	}
}

func TestIndexInverseTables(t *testing.T) {
	m := stubMapper{rowsPerLine: []int{2, 1, 3, 1, 2}}
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 1, End: 4}})
	ix.Toggle(1)
	ix.Rebuild(m)

	for row := 0; row < ix.DisplayRowCount(); row++ {
		d, visible := ix.WrapToDisplay(ix.DisplayToWrap(row))
		if !visible || d != row {
			t.Errorf("row %d: inverse table mismatch, got (%d, %v)", row, d, visible)
		}
	}
}

func TestIndexToggleUnfolds(t *testing.T) {
	m := flat(6)
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 1, End: 4}})

	ix.Toggle(1)
	ix.Rebuild(m)
	if got := ix.DisplayRowCount(); got != 4 {
		t.Fatalf("expected 4 rows folded, got %d", got)
	}

	// Toggling any covered line unfolds.
	if !ix.Toggle(2) {
		t.Fatal("expected unfold to succeed")
	}
	ix.Rebuild(m)
	if got := ix.DisplayRowCount(); got != 6 {
		t.Errorf("expected 6 rows after unfold, got %d", got)
	}
	if ix.IsFoldedAt(1) {
		t.Error("line 1 should not be folded")
	}
}

func TestIndexToggleNoCoveringRange(t *testing.T) {
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 1, End: 4}})

	if ix.Toggle(5) {
		t.Error("expected toggle outside any candidate to fail")
	}
	if len(ix.ActiveFolds()) != 0 {
		t.Error("state should be unchanged after rejected toggle")
	}
}

func TestIndexOverlapRejected(t *testing.T) {
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 1, End: 5}, {Start: 3, End: 8}})

	if !ix.Toggle(1) {
		t.Fatal("expected first fold to succeed")
	}
	// Line 5 is covered only by [3,8); activating it would overlap [1,5).
	if ix.Toggle(5) {
		t.Error("expected overlapping fold to be rejected")
	}
	if len(ix.ActiveFolds()) != 1 {
		t.Errorf("expected 1 active fold, got %d", len(ix.ActiveFolds()))
	}
}

func TestIndexSetFolded(t *testing.T) {
	m := flat(8)
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 1, End: 4}})

	if !ix.SetFolded(1, true) {
		t.Fatal("expected fold to succeed")
	}
	// Already folded: desired state holds.
	if !ix.SetFolded(2, true) {
		t.Error("expected folding an already-folded line to report success")
	}
	if !ix.SetFolded(2, false) {
		t.Error("expected unfold to succeed")
	}
	// Already unfolded: desired state holds.
	if !ix.SetFolded(2, false) {
		t.Error("expected unfolding an unfolded line to report success")
	}
	if ix.SetFolded(6, true) {
		t.Error("expected folding without a covering range to fail")
	}
	ix.Rebuild(m)
	if got := ix.DisplayRowCount(); got != 8 {
		t.Errorf("expected all rows visible, got %d", got)
	}
}

func TestIndexInnermostCandidateWins(t *testing.T) {
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 0, End: 10}, {Start: 2, End: 5}})

	// Line 3 is covered by both; the smaller range wins.
	if !ix.Toggle(3) {
		t.Fatal("expected fold to succeed")
	}
	active := ix.ActiveFolds()
	if len(active) != 1 || active[0] != (Range{Start: 2, End: 5}) {
		t.Errorf("expected innermost fold [2,5), got %v", active)
	}
}

func TestIndexExactStartPreferred(t *testing.T) {
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 0, End: 10}, {Start: 2, End: 8}})

	// Line 0 matches [0,10) exactly even though [2,8) is smaller.
	if !ix.Toggle(0) {
		t.Fatal("expected fold to succeed")
	}
	active := ix.ActiveFolds()
	if len(active) != 1 || active[0] != (Range{Start: 0, End: 10}) {
		t.Errorf("expected fold [0,10), got %v", active)
	}
}

func TestIndexClear(t *testing.T) {
	m := flat(6)
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 0, End: 2}, {Start: 3, End: 6}})
	ix.Toggle(0)
	ix.Toggle(3)
	ix.Rebuild(m)
	if got := ix.DisplayRowCount(); got != 3 {
		t.Fatalf("expected 3 display rows, got %d", got)
	}

	ix.Clear()
	ix.Rebuild(m)
	if got := ix.DisplayRowCount(); got != 6 {
		t.Errorf("expected 6 display rows after clear, got %d", got)
	}
	if got := len(ix.ActiveFolds()); got != 0 {
		t.Errorf("expected no active folds, got %d", got)
	}
}

func TestIndexStaleFoldsClampedAndDropped(t *testing.T) {
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 1, End: 5}, {Start: 6, End: 12}})
	ix.Toggle(1)
	ix.Toggle(6)
	ix.Rebuild(flat(12))
	if got := len(ix.ActiveFolds()); got != 2 {
		t.Fatalf("expected 2 active folds, got %d", got)
	}

	// Buffer shrank to 4 lines: [1,5) clamps to [1,4), [6,12) is dropped.
	ix.Rebuild(flat(4))
	active := ix.ActiveFolds()
	if len(active) != 1 {
		t.Fatalf("expected 1 surviving fold, got %d", len(active))
	}
	if active[0] != (Range{Start: 1, End: 4}) {
		t.Errorf("expected clamped fold [1,4), got %v", active[0])
	}
	if got := ix.DisplayRowCount(); got != 2 {
		t.Errorf("expected 2 display rows, got %d", got)
	}
}

func TestIndexSetCandidatesDropsDegenerate(t *testing.T) {
	ix := NewIndex()
	ix.SetCandidates([]Range{
		{Start: 3, End: 3},
		{Start: 5, End: 2},
		{Start: -1, End: 4},
		{Start: 2, End: 6},
	})
	if got := len(ix.Candidates()); got != 1 {
		t.Fatalf("expected 1 valid candidate, got %d", got)
	}
	if ix.Candidates()[0] != (Range{Start: 2, End: 6}) {
		t.Errorf("unexpected candidate %v", ix.Candidates()[0])
	}
}

func TestIndexSetCandidatesKeepsActiveFolds(t *testing.T) {
	m := flat(6)
	ix := NewIndex()
	ix.SetCandidates([]Range{{Start: 1, End: 4}})
	ix.Toggle(1)
	ix.Rebuild(m)

	ix.SetCandidates([]Range{{Start: 0, End: 3}})
	ix.Rebuild(m)
	if !ix.IsFoldedAt(1) {
		t.Error("replacing candidates should not unfold active folds")
	}
	if got := ix.DisplayRowCount(); got != 4 {
		t.Errorf("expected 4 display rows, got %d", got)
	}
}

func TestIndexEmptyGeometry(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild(flat(0))

	if got := ix.DisplayRowCount(); got != 0 {
		t.Errorf("expected 0 display rows, got %d", got)
	}
	if got := ix.DisplayToWrap(3); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
	if _, visible := ix.WrapToDisplay(0); visible {
		t.Error("expected no visible rows")
	}
}
