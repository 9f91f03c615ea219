// Package main is the entry point for retext, a text editor whose every
// edit can be undone and redone.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"

	"github.com/dshills/retext/internal/config"
	"github.com/dshills/retext/internal/engine/history"
	"github.com/dshills/retext/internal/event"
	"github.com/dshills/retext/internal/event/events"
	"github.com/dshills/retext/internal/logging"
	"github.com/dshills/retext/internal/report"
	"github.com/dshills/retext/internal/script"
	"github.com/dshills/retext/internal/session"
	"github.com/dshills/retext/internal/ui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	ConfigPath string
	LogLevel   string
	ScriptPath string
	JSON       bool
	Text       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(cfg, opts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.ScriptPath != "" {
		return runScript(ctx, cfg, opts)
	}

	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		fmt.Fprintf(os.Stderr, "Error: interactive mode needs a terminal; use -script to run headless\n")
		return 1
	}
	return runInteractive(ctx, cfg, opts)
}

// applyFlags overrides cfg with settings given on the command line. It runs
// after every load, so a reload never undoes a flag.
func applyFlags(cfg *config.Config, opts options) {
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newLogger builds the root logger. Without a log file, output goes to
// fallback.
func newLogger(cfg *config.Config, fallback io.Writer) (*logging.Logger, io.Closer, error) {
	out := io.WriteCloser(nopCloser{fallback})
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, nil, err
		}
		out = f
	}
	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: out,
		Prefix: "retext",
	})
	return logger, out, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// newSession wires a session to a bus that logs every history event. The
// returned func detaches the event log and reports the bus totals.
func newSession(cfg *config.Config, text string, logger *logging.Logger) (*session.Session, *event.Bus, func()) {
	bus := event.NewBus()
	eventLog := logger.WithComponent("events")
	sub, err := bus.Subscribe("**", func(_ context.Context, env event.Envelope) error {
		eventLog.Debug("%s %+v", env.Topic, env.Payload)
		return nil
	})
	if err != nil {
		eventLog.Warn("event log disabled: %v", err)
	}

	sess := session.New(
		session.WithText(text),
		session.WithHistory(history.New(history.WithMaxEntries(cfg.History.MaxEntries))),
		session.WithBus(bus),
		session.WithLogger(logger),
	)
	done := func() {
		if err == nil {
			_ = bus.Unsubscribe(sub)
		}
		st := bus.Stats()
		eventLog.Debug("published %d, delivered %d, handler errors %d, panics %d",
			st.EventsPublished, st.EventsDelivered, st.HandlerErrors, st.HandlerPanics)
	}
	return sess, bus, done
}

// runScript applies a Lua script to the starting text and prints the
// result: the final text, or the JSON report with -json.
func runScript(ctx context.Context, cfg *config.Config, opts options) int {
	logger, closer, err := newLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	sess, _, done := newSession(cfg, opts.Text, logger)
	defer done()
	runErr := script.New(sess, script.WithLogger(logger)).RunFile(ctx, opts.ScriptPath)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
	}

	if opts.JSON {
		doc, err := report.Render(sess.State())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(doc)
	} else {
		fmt.Print(sess.Text())
	}

	if runErr != nil {
		return 1
	}
	return 0
}

// runInteractive starts the terminal UI. Logs go to the configured file
// only, so they never draw over the screen.
func runInteractive(ctx context.Context, cfg *config.Config, opts options) int {
	logger, closer, err := newLogger(cfg, io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	sess, bus, done := newSession(cfg, opts.Text, logger)
	defer done()
	view := ui.New(screen, sess, cfg.Display, logger)

	if opts.ConfigPath != "" {
		w, err := watchConfig(opts.ConfigPath, opts, sess, bus, view, logger)
		if err != nil {
			logger.Warn("config reload disabled: %v", err)
		} else {
			defer w.Close()
			go func() {
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("config watcher: %v", err)
				}
			}()
		}
	}

	logger.Info("session %s started", sess.ID())
	if err := view.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// watchConfig reloads the configuration when the file changes and applies
// it on the UI event loop. Environment overrides and flags are applied to
// every reload, as they were to the first load.
func watchConfig(path string, opts options, sess *session.Session, bus *event.Bus, view *ui.UI, logger *logging.Logger) (*config.Watcher, error) {
	return config.NewWatcher(path, func(cfg *config.Config, loadErr error) {
		if cfg != nil {
			applyFlags(cfg, opts)
		}
		_ = view.Do(func() {
			ctx := context.Background()
			if loadErr != nil {
				logger.Warn("config reload failed: %v", loadErr)
				_ = event.Publish(ctx, bus, event.NewEvent(events.TopicConfigReloadFailed,
					events.ConfigReloaded{Path: path, Error: loadErr.Error()}, "config"))
				return
			}
			logger.SetLevel(cfg.LogLevel())
			sess.History().SetMaxEntries(cfg.History.MaxEntries)
			view.SetDisplay(cfg.Display)
			logger.Info("config reloaded from %s", path)
			_ = event.Publish(ctx, bus, event.NewEvent(events.TopicConfigReloaded,
				events.ConfigReloaded{Path: path}, "config"))
		})
	}, config.WithLookup(os.LookupEnv))
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml or .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flag.StringVar(&opts.ScriptPath, "script", "", "Run a Lua script headless and print the result")
	flag.StringVar(&opts.ScriptPath, "s", "", "Run a Lua script headless (shorthand)")
	flag.BoolVar(&opts.JSON, "json", false, "With -script, print the final state as JSON")
	flag.StringVar(&opts.Text, "text", "", "Starting text")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "retext - text editor with undo and redo history\n\n")
		fmt.Fprintf(os.Stderr, "Usage: retext [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: Ctrl-Z undo, Ctrl-Y redo, Ctrl-Q or Esc quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  retext                          Edit an empty buffer\n")
		fmt.Fprintf(os.Stderr, "  retext -text 'hello'            Start from some text\n")
		fmt.Fprintf(os.Stderr, "  retext -s edits.lua -json       Run a script and print the history\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("retext %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", flag.Args())
		os.Exit(1)
	}

	return opts
}
