package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/displaymap"
	"github.com/dshills/displaymap/config"
	"github.com/dshills/displaymap/foldscan"
	"github.com/dshills/displaymap/internal/watch"
)

// viewer renders a file through the display map and handles input. The
// cursor lives in display space; every repaint walks only visible rows.
type viewer struct {
	screen tcell.Screen
	cfg    config.Config
	path   string
	lines  []string
	dm     *displaymap.DisplayMap

	cursor  displaymap.DisplayPos
	top     int // first display row on screen
	wrapOff bool
	status  string
}

func newViewer(screen tcell.Screen, cfg config.Config, path string, lines []string) *viewer {
	width := cfg.WrapWidth
	if width < 0 {
		w, _ := screen.Size()
		width = w
	}
	v := &viewer{
		screen:  screen,
		cfg:     cfg,
		path:    path,
		lines:   lines,
		wrapOff: width == 0,
		dm: displaymap.New(
			displaymap.WithWrapWidth(width),
			displaymap.WithTabWidth(cfg.TabWidth),
			displaymap.WithWordWrap(cfg.WordWrap),
		),
	}
	v.dm.SetText(lines)
	v.rescanFolds()
	return v
}

// run drives the event loop until quit.
func (v *viewer) run(watcher *watch.Watcher) {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go v.screen.ChannelEvents(events, quit)
	defer close(quit)

	v.draw()
	for {
		select {
		case fileEvent := <-watcher.Events():
			v.reload(fileEvent)
			v.draw()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
				if v.cfg.WrapWidth < 0 && !v.wrapOff {
					w, _ := v.screen.Size()
					v.dm.OnLayoutChanged(w)
				}
				v.draw()
			case *tcell.EventKey:
				if !v.handleKey(ev) {
					return
				}
				v.draw()
			}
		}
	}
}

// reload re-reads the watched file and funnels the change through the
// incremental edit path.
func (v *viewer) reload(ev watch.Event) {
	if ev.Removed {
		v.status = "file removed"
		return
	}
	lines, err := readLines(v.path)
	if err != nil {
		v.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	// Replace only the suffix that differs; leading unchanged lines keep
	// their wrap geometry.
	same := 0
	for same < len(v.lines) && same < len(lines) && v.lines[same] == lines[same] {
		same++
	}
	v.dm.OnTextChanged(same, len(v.lines), lines[same:])
	v.lines = lines
	v.rescanFolds()
	v.status = "reloaded"
	v.clampCursor()
}

// rescanFolds refreshes fold candidates from the configured scanner.
func (v *viewer) rescanFolds() {
	switch v.cfg.FoldScan {
	case "brace":
		v.dm.SetFoldCandidates(foldscan.Braces(v.lines))
	case "indent":
		v.dm.SetFoldCandidates(foldscan.Indent(v.lines))
	}
}

// handleKey processes one key event; returns false to quit.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	_, height := v.screen.Size()
	page := height - 2
	if page < 1 {
		page = 1
	}

	switch {
	case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
		return false
	case ev.Key() == tcell.KeyUp:
		v.cursor.Row--
	case ev.Key() == tcell.KeyDown:
		v.cursor.Row++
	case ev.Key() == tcell.KeyLeft:
		v.cursor.Col--
	case ev.Key() == tcell.KeyRight:
		v.cursor.Col++
	case ev.Key() == tcell.KeyPgUp:
		v.cursor.Row -= page
	case ev.Key() == tcell.KeyPgDn:
		v.cursor.Row += page
	case ev.Key() == tcell.KeyHome:
		v.cursor.Col = 0
	case ev.Rune() == 'z':
		v.toggleFold()
	case ev.Rune() == 'Z':
		v.dm.ClearFolds()
		v.status = "folds cleared"
	case ev.Rune() == 'w':
		v.toggleWrap()
	}
	v.clampCursor()
	return true
}

// toggleFold folds or unfolds at the buffer line under the cursor.
func (v *viewer) toggleFold() {
	pos := v.dm.DisplayPosToBufferPos(v.cursor)
	if v.dm.ToggleFold(pos.Line) {
		v.status = fmt.Sprintf("fold toggled at line %d", pos.Line+1)
	} else {
		v.status = fmt.Sprintf("no foldable range at line %d", pos.Line+1)
	}
}

// toggleWrap flips soft wrap between off and the configured/screen width.
func (v *viewer) toggleWrap() {
	// Keep the cursor on the same buffer position across the layout change.
	pos := v.dm.DisplayPosToBufferPos(v.cursor)
	width := 0
	if v.wrapOff {
		width = v.cfg.WrapWidth
		if width < 0 {
			width, _ = v.screen.Size()
		}
	}
	v.wrapOff = width == 0
	v.dm.OnLayoutChanged(width)
	v.cursor = v.dm.BufferPosToDisplayPos(pos)
	if width == 0 {
		v.status = "wrap off"
	} else {
		v.status = fmt.Sprintf("wrap at %d", width)
	}
}

// clampCursor keeps the cursor on a valid display position.
func (v *viewer) clampCursor() {
	rows := v.dm.DisplayRowCount()
	if rows == 0 {
		v.cursor = displaymap.DisplayPos{}
		return
	}
	if v.cursor.Row < 0 {
		v.cursor.Row = 0
	}
	if v.cursor.Row >= rows {
		v.cursor.Row = rows - 1
	}
	span := v.dm.SpanForDisplayRow(v.cursor.Row)
	maxCol := span.EndCol - span.StartCol
	if v.cursor.Col < 0 {
		v.cursor.Col = 0
	}
	if v.cursor.Col > maxCol {
		v.cursor.Col = maxCol
	}

	// Scroll to keep the cursor on screen.
	_, height := v.screen.Size()
	visible := height - 1 // last row is the status line
	if visible < 1 {
		visible = 1
	}
	if v.cursor.Row < v.top {
		v.top = v.cursor.Row
	}
	if v.cursor.Row >= v.top+visible {
		v.top = v.cursor.Row - visible + 1
	}
}

// draw repaints the screen from the display map.
func (v *viewer) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	visible := height - 1
	rows := v.dm.DisplayRowCount()

	style := tcell.StyleDefault
	foldStyle := style.Foreground(tcell.ColorYellow).Bold(true)

	for i := 0; i < visible && v.top+i < rows; i++ {
		row := v.top + i
		span := v.dm.SpanForDisplayRow(row)
		text := sliceRunes(v.dm.LineText(span.Line), span.StartCol, span.EndCol)
		text = expandTabs(text, v.cfg.TabWidth)
		drawText(v.screen, 0, i, width, text, style)
		if span.Folded {
			marker := fmt.Sprintf(" [%d lines]", foldLen(v.dm, span.Line))
			drawText(v.screen, runewidth.StringWidth(text), i, width, marker, foldStyle)
		}
	}

	status := fmt.Sprintf("%s  %d/%d rows  %d lines  %s",
		v.path, v.cursor.Row+1, rows, v.dm.BufferLineCount(), v.status)
	drawText(v.screen, 0, height-1, width, status, style.Reverse(true))

	v.screen.ShowCursor(v.cursor.Col, v.cursor.Row-v.top)
	v.screen.Show()
}

// foldLen returns the line count of the active fold starting at the line.
func foldLen(dm *displaymap.DisplayMap, line int) int {
	for _, r := range dm.ActiveFolds() {
		if r.StartLine == line {
			return r.Len()
		}
	}
	return 0
}

// drawText paints a string clipped to the screen width.
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// sliceRunes returns the rune range [start, end) of a string.
func sliceRunes(s string, start, end int) string {
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}

// expandTabs replaces tabs with spaces to the next tab stop.
func expandTabs(s string, tabWidth int) string {
	if tabWidth < 1 {
		tabWidth = 4
	}
	out := make([]rune, 0, len(s))
	col := 0
	for _, r := range s {
		if r == '\t' {
			pad := tabWidth - (col % tabWidth)
			for i := 0; i < pad; i++ {
				out = append(out, ' ')
			}
			col += pad
			continue
		}
		out = append(out, r)
		col += runewidth.RuneWidth(r)
	}
	return string(out)
}
