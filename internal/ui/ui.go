// Package ui is the terminal front end: a text area with undo and redo.
package ui

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/retext/internal/config"
	"github.com/dshills/retext/internal/engine/history"
	"github.com/dshills/retext/internal/logging"
	"github.com/dshills/retext/internal/session"
)

// UI owns the screen and translates key events into session operations.
// All methods run on the goroutine that calls Run.
type UI struct {
	screen tcell.Screen
	sess   *session.Session
	cfg    config.DisplayConfig
	logger *logging.Logger

	ctx    context.Context
	cursor int // character offset into the text
	status string
}

// New creates a UI. The screen must already be initialized; the caller
// finalizes it after Run returns.
func New(screen tcell.Screen, sess *session.Session, cfg config.DisplayConfig, logger *logging.Logger) *UI {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &UI{
		screen: screen,
		sess:   sess,
		cfg:    cfg,
		logger: logger.WithComponent("ui"),
		ctx:    context.Background(),
		cursor: utf8.RuneCountInString(sess.Text()),
	}
}

// SetDisplay replaces the display settings, for example after a config
// reload. Call Draw to apply them.
func (u *UI) SetDisplay(cfg config.DisplayConfig) {
	u.cfg = cfg
}

// Cursor returns the cursor position in characters.
func (u *UI) Cursor() int {
	return u.cursor
}

// Status returns the message shown under the header.
func (u *UI) Status() string {
	return u.status
}

// Run draws the screen and processes events until the user quits, the
// screen is finalized or ctx is done.
func (u *UI) Run(ctx context.Context) error {
	u.ctx = ctx
	defer func() { u.ctx = context.Background() }()

	stop := context.AfterFunc(ctx, func() {
		_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	u.Draw()
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ev, ok := ev.(*tcell.EventInterrupt); ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			if fn, ok := ev.Data().(func()); ok {
				fn()
				u.Draw()
			}
			continue
		}
		if u.HandleEvent(ev) {
			return nil
		}
		u.Draw()
	}
}

// Do schedules fn to run on the event loop, before the next redraw. It is
// safe to call from any goroutine and is the only way other goroutines may
// touch the session while Run is active.
func (u *UI) Do(fn func()) error {
	return u.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// HandleEvent applies one event. It reports true when the user asked to
// quit. The caller redraws.
func (u *UI) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		return u.handleKey(ev)
	}
	return false
}

func (u *UI) handleKey(ev *tcell.EventKey) bool {
	text := []rune(u.sess.Text())
	u.clampCursor(len(text))

	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return true

	case tcell.KeyCtrlZ:
		u.step("undo", u.sess.Undo)
	case tcell.KeyCtrlY:
		u.step("redo", u.sess.Redo)

	case tcell.KeyRune:
		u.insert(string(ev.Rune()))
	case tcell.KeyEnter:
		u.insert("\n")
	case tcell.KeyTab:
		u.insert("\t")

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if u.cursor > 0 {
			if u.edit(u.sess.Delete(u.ctx, u.cursor-1, 1)) {
				u.cursor--
			}
		}
	case tcell.KeyDelete:
		if u.cursor < len(text) {
			u.edit(u.sess.Delete(u.ctx, u.cursor, 1))
		}

	case tcell.KeyLeft:
		if u.cursor > 0 {
			u.cursor--
		}
	case tcell.KeyRight:
		if u.cursor < len(text) {
			u.cursor++
		}
	case tcell.KeyUp, tcell.KeyDown:
		line, col := position(text, u.cursor)
		if ev.Key() == tcell.KeyUp {
			line--
		} else {
			line++
		}
		if line >= 0 {
			u.cursor = offsetAt(text, line, col)
		}
	case tcell.KeyHome:
		line, _ := position(text, u.cursor)
		u.cursor = offsetAt(text, line, 0)
	case tcell.KeyEnd:
		line, _ := position(text, u.cursor)
		u.cursor = offsetAt(text, line, len(text))
	}
	return false
}

func (u *UI) insert(s string) {
	if u.edit(u.sess.Insert(u.ctx, u.cursor, s)) {
		u.cursor += utf8.RuneCountInString(s)
	}
}

// edit records the outcome of an edit in the status line.
func (u *UI) edit(err error) bool {
	if err != nil {
		u.logger.Warn("edit rejected: %v", err)
		u.status = err.Error()
		return false
	}
	u.status = ""
	return true
}

// step runs undo or redo and moves the cursor to the end of the span the
// operation changed.
func (u *UI) step(name string, fn func(context.Context) error) {
	before := u.sess.Text()
	if err := fn(u.ctx); err != nil {
		if !errors.Is(err, history.ErrNothingToUndo) && !errors.Is(err, history.ErrNothingToRedo) {
			u.logger.Error("%s failed: %v", name, err)
		}
		u.status = err.Error()
		return
	}
	u.status = ""
	if c, ok := session.Diff(before, u.sess.Text()); ok {
		u.cursor = c.Offset + c.AddedLen
	}
}

func (u *UI) clampCursor(n int) {
	if u.cursor > n {
		u.cursor = n
	}
	if u.cursor < 0 {
		u.cursor = 0
	}
}

// position returns the line and column of offset in text.
func position(text []rune, offset int) (line, col int) {
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

// offsetAt returns the offset of line and col, clamping col to the line
// length and line to the last line.
func offsetAt(text []rune, line, col int) int {
	start := 0
	for l := 0; l < line; l++ {
		next := indexRune(text, start, '\n')
		if next < 0 {
			break
		}
		start = next + 1
	}
	end := indexRune(text, start, '\n')
	if end < 0 {
		end = len(text)
	}
	if col > end-start {
		col = end - start
	}
	return start + col
}

func indexRune(text []rune, from int, r rune) int {
	for i := from; i < len(text); i++ {
		if text[i] == r {
			return i
		}
	}
	return -1
}
