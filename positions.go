package displaymap

import "fmt"

// BufferPos is a logical position in the buffer. Line is a 0-indexed logical
// line number; Col is a 0-indexed rune offset within that line.
type BufferPos struct {
	Line int
	Col  int
}

// String returns a human-readable representation of the position.
func (p BufferPos) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Col)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p BufferPos) Compare(other BufferPos) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Col != other.Col {
		if p.Col < other.Col {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p BufferPos) Before(other BufferPos) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p BufferPos) After(other BufferPos) bool {
	return p.Compare(other) > 0
}

// DisplayPos is a position in display space, after soft-wrap and fold
// projection. Row is the final visible row index; Col is a rune offset
// within that row's segment.
type DisplayPos struct {
	Row int
	Col int
}

// String returns a human-readable representation of the position.
func (p DisplayPos) String() string {
	return fmt.Sprintf("[%d:%d]", p.Row, p.Col)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p DisplayPos) Compare(other DisplayPos) int {
	if p.Row != other.Row {
		if p.Row < other.Row {
			return -1
		}
		return 1
	}
	if p.Col != other.Col {
		if p.Col < other.Col {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if p comes before other in reading order.
func (p DisplayPos) Before(other DisplayPos) bool {
	return p.Compare(other) < 0
}

// FoldRange is a half-open logical-line interval [StartLine, EndLine)
// eligible to be collapsed into a single visible row.
type FoldRange struct {
	StartLine int
	EndLine   int
}

// String returns a human-readable representation of the range.
func (r FoldRange) String() string {
	return fmt.Sprintf("[%d:%d)", r.StartLine, r.EndLine)
}

// Len returns the number of logical lines covered by the range.
func (r FoldRange) Len() int {
	if r.EndLine <= r.StartLine {
		return 0
	}
	return r.EndLine - r.StartLine
}

// IsValid returns true if the range covers at least one line.
func (r FoldRange) IsValid() bool {
	return r.StartLine >= 0 && r.EndLine > r.StartLine
}

// Contains returns true if the given line is within the range.
func (r FoldRange) Contains(line int) bool {
	return line >= r.StartLine && line < r.EndLine
}

// Overlaps returns true if this range overlaps with another range.
func (r FoldRange) Overlaps(other FoldRange) bool {
	return r.StartLine < other.EndLine && other.StartLine < r.EndLine
}
