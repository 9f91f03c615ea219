package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var (
	styleDefault = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Bold(true)
	styleEnabled = tcell.StyleDefault.Reverse(true)
	styleDimmed  = tcell.StyleDefault.Dim(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Header rows above the text area: depths and labels, then the status.
const headerRows = 2

// Draw renders the whole screen.
func (u *UI) Draw() {
	u.screen.Clear()
	width, height := u.screen.Size()
	st := u.sess.State()

	// Header
	x := drawString(u.screen, 0, 0, width, fmt.Sprintf("Past: %d  Future: %d  ", st.PastDepth, st.FutureDepth), styleHeader)
	x = drawString(u.screen, x, 0, width, " Undo ", labelStyle(st.CanUndo))
	x = drawString(u.screen, x, 0, width, " ", styleDefault)
	drawString(u.screen, x, 0, width, " Redo ", labelStyle(st.CanRedo))
	drawString(u.screen, 0, 1, width, u.status, styleStatus)

	textRows := height - headerRows
	if u.cfg.ShowStacks {
		panel := u.drawStacks(st.Past, st.Future, width, height)
		textRows -= panel
	}

	u.drawText([]rune(st.Text), width, textRows)
	u.screen.Show()
}

func labelStyle(enabled bool) tcell.Style {
	if enabled {
		return styleEnabled
	}
	return styleDimmed
}

// drawText renders the text area and places the cursor. Lines scroll so
// the cursor stays visible.
func (u *UI) drawText(text []rune, width, rows int) {
	if rows <= 0 {
		u.screen.HideCursor()
		return
	}
	u.clampCursor(len(text))
	cursorLine, cursorCol := position(text, u.cursor)

	top := 0
	if cursorLine >= rows {
		top = cursorLine - rows + 1
	}

	line, col := 0, 0
	for _, r := range text {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		if line >= top && line < top+rows && col < width {
			if r == '\t' {
				r = ' '
			}
			u.screen.SetContent(col, headerRows+line-top, r, nil, styleDefault)
		}
		col++
	}

	if cursorCol < width {
		u.screen.ShowCursor(cursorCol, headerRows+cursorLine-top)
	} else {
		u.screen.HideCursor()
	}
}

// drawStacks renders the past and future panels at the bottom of the
// screen and returns the rows used.
func (u *UI) drawStacks(past, future []string, width, height int) int {
	limit := u.cfg.StackLimit
	rows := limit + 1
	if rows > height-headerRows-1 {
		rows = height - headerRows - 1
	}
	if rows < 2 {
		return 0
	}

	top := height - rows
	half := width / 2
	drawString(u.screen, 0, top, half, "Undo stack", styleHeader)
	drawString(u.screen, half, top, width, "Redo stack", styleHeader)
	for i := 0; i < rows-1; i++ {
		if i < len(past) {
			drawString(u.screen, 0, top+1+i, half-1, past[i], styleDefault)
		}
		if i < len(future) {
			drawString(u.screen, half, top+1+i, width, future[i], styleDefault)
		}
	}
	return rows
}

// drawString writes s at (x, y) without passing maxX and returns the
// column after the last rune written. Control characters render as spaces.
func drawString(s tcell.Screen, x, y, maxX int, str string, style tcell.Style) int {
	for _, r := range str {
		if x >= maxX {
			break
		}
		if r < ' ' {
			r = ' '
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
