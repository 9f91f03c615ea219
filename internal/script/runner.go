package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/retext/internal/engine/history"
	"github.com/dshills/retext/internal/logging"
	"github.com/dshills/retext/internal/session"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// Runner executes scripts against one session.
type Runner struct {
	sess    *session.Session
	logger  *logging.Logger
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used by log() and print().
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout sets the time limit for each run. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// New creates a runner for sess.
func New(sess *session.Session, opts ...Option) *Runner {
	r := &Runner{
		sess:    sess,
		logger:  logging.NullLogger,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script")
	return r
}

// Run executes code. Edits made before an error are kept.
func (r *Runner) Run(ctx context.Context, code string) error {
	return r.exec(ctx, "<string>", func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return &Error{Name: path, Err: err}
	}
	return r.exec(ctx, path, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

func (r *Runner) exec(ctx context.Context, name string, do func(L *lua.LState) error) (err error) {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	L := newState()
	defer L.Close()
	L.SetContext(runCtx)
	r.install(runCtx, L)

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = &Error{Name: name, Err: fmt.Errorf("lua panic: %v", p)}
		}
	}()

	if runErr := do(L); runErr != nil {
		// Cancellation surfaces as a Lua error; report the cause instead.
		switch {
		case ctx.Err() != nil:
			return &Error{Name: name, Err: ctx.Err()}
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return &Error{Name: name, Err: fmt.Errorf("%w after %v", ErrTimeout, r.timeout)}
		}
		return &Error{Name: name, Err: runErr}
	}

	r.logger.Debug("ran %s in %v", name, time.Since(start))
	return nil
}

// newState creates a Lua state with only the safe standard libraries.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// install registers the editing globals.
func (r *Runner) install(ctx context.Context, L *lua.LState) {
	edit := func(fn func(L *lua.LState) error) lua.LGFunction {
		return func(L *lua.LState) int {
			if err := fn(L); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		}
	}
	step := func(fn func(context.Context) error) lua.LGFunction {
		return func(L *lua.LState) int {
			if err := fn(ctx); err != nil {
				L.Push(lua.LFalse)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LTrue)
			return 1
		}
	}
	logFn := func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		r.logger.Info("%s", strings.Join(parts, "\t"))
		return 0
	}

	funcs := map[string]lua.LGFunction{
		"insert": edit(func(L *lua.LState) error {
			return r.sess.Insert(ctx, L.CheckInt(1), L.CheckString(2))
		}),
		"delete": edit(func(L *lua.LState) error {
			return r.sess.Delete(ctx, L.CheckInt(1), L.CheckInt(2))
		}),
		"replace": edit(func(L *lua.LState) error {
			return r.sess.ReplaceRange(ctx, L.CheckInt(1), L.CheckInt(2), L.CheckString(3))
		}),
		"set_text": edit(func(L *lua.LState) error {
			return r.sess.Replace(ctx, L.CheckString(1))
		}),
		"undo": step(r.sess.Undo),
		"redo": step(r.sess.Redo),
		"text": func(L *lua.LState) int {
			L.Push(lua.LString(r.sess.Text()))
			return 1
		},
		"depths": func(L *lua.LState) int {
			st := r.sess.State()
			L.Push(lua.LNumber(st.PastDepth))
			L.Push(lua.LNumber(st.FutureDepth))
			return 2
		},
		"past": func(L *lua.LState) int {
			L.Push(stringTable(L, r.sess.State().Past))
			return 1
		},
		"future": func(L *lua.LState) int {
			L.Push(stringTable(L, r.sess.State().Future))
			return 1
		},
		"checkpoint": func(L *lua.LState) int {
			ud := L.NewUserData()
			ud.Value = r.sess.Checkpoint()
			L.Push(ud)
			return 1
		},
		"undo_to": step(func(ctx context.Context) error {
			return r.sess.UndoTo(ctx, checkCheckpoint(L, 1))
		}),
		"redo_to": step(func(ctx context.Context) error {
			return r.sess.RedoTo(ctx, checkCheckpoint(L, 1))
		}),
		"log":   logFn,
		"print": logFn,
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// checkCheckpoint returns argument n as a checkpoint or raises an argument
// error.
func checkCheckpoint(L *lua.LState, n int) history.Checkpoint {
	ud := L.CheckUserData(n)
	cp, ok := ud.Value.(history.Checkpoint)
	if !ok {
		L.ArgError(n, "checkpoint expected")
	}
	return cp
}

func stringTable(L *lua.LState, items []string) *lua.LTable {
	t := L.CreateTable(len(items), 0)
	for _, s := range items {
		t.Append(lua.LString(s))
	}
	return t
}
