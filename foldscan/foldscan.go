// Package foldscan produces fold-candidate ranges from plain text. It is a
// heuristic stand-in for a structural or outline analyzer: the mapping
// engine treats candidates as advisory input regardless of their source,
// and callers with real language services should supply their own.
package foldscan

import (
	"sort"
	"strings"

	"github.com/dshills/displaymap"
)

// minBodyLines is the smallest number of lines between a block's delimiters
// for the block to be worth folding.
const minBodyLines = 2

// Braces scans for brace-delimited blocks and returns one candidate per
// block spanning the opening-brace line through the closing-brace line.
// Unbalanced braces are tolerated; unclosed blocks produce no candidate.
func Braces(lines []string) []displaymap.FoldRange {
	var candidates []displaymap.FoldRange
	var stack []int

	for i, line := range lines {
		for _, r := range line {
			switch r {
			case '{':
				stack = append(stack, i)
			case '}':
				if len(stack) == 0 {
					continue
				}
				start := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if i-start-1 >= minBodyLines {
					candidates = append(candidates, displaymap.FoldRange{
						StartLine: start,
						EndLine:   i + 1,
					})
				}
			}
		}
	}

	sortRanges(candidates)
	return candidates
}

// Indent returns one candidate per indentation block: a line followed by
// one or more lines of deeper indentation folds through the last deeper
// line. Blank lines extend the enclosing block. Tabs count as one indent
// unit per rune, matching common indent-folding behavior in plain text.
func Indent(lines []string) []displaymap.FoldRange {
	var candidates []displaymap.FoldRange

	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		level := indentOf(lines[i])
		end := i
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			if indentOf(lines[j]) <= level {
				break
			}
			end = j
		}
		if end-i >= minBodyLines {
			candidates = append(candidates, displaymap.FoldRange{
				StartLine: i,
				EndLine:   end + 1,
			})
		}
	}

	sortRanges(candidates)
	return candidates
}

// indentOf returns the count of leading whitespace runes.
func indentOf(line string) int {
	n := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

func sortRanges(ranges []displaymap.FoldRange) {
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].StartLine != ranges[j].StartLine {
			return ranges[i].StartLine < ranges[j].StartLine
		}
		return ranges[i].EndLine < ranges[j].EndLine
	})
}
