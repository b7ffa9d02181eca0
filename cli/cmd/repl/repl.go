package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/complexpr/lang"
	"github.com/ardnew/complexpr/lang/lib"
	"github.com/ardnew/complexpr/log"
)

// Config configures an interactive session.
type Config struct {
	// Env is the environment programs evaluate in. Run modifies it.
	Env *lang.Env
	// Options are passed to every compilation.
	Options []lang.Option
	// IO installs the io library bound to the session streams. Set it for
	// the full environment.
	IO bool
	// Sources are the files reloaded into Env when Watch is set.
	Sources []string
	// Load evaluates the file at path in env.
	Load  func(ctx context.Context, env *lang.Env, path string) error
	Watch bool
	// Plain selects the line-oriented front-end even on a terminal.
	Plain bool
	// CacheDir holds the history file. History is not saved when empty.
	CacheDir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

const (
	evalPrompt  = ">> "
	ctrlPrompt  = " :"
	plainPrompt = ">> "
)

// ctrlCommands are the commands accepted after ':' or in command mode.
var ctrlCommands = []string{"help", "vars", "edit", "clear", "quit"}

func helpMessage() string {
	return `
Commands (prefix with ':' or press Esc to toggle command mode):

  help     Print this message
  vars     List bindings made in this session ('vars all' for every binding)
  edit     Edit a program in $EDITOR and evaluate it
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to evaluate it; the last result is bound to _
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to navigate command history
  Call exit() or press Ctrl+D on an empty line to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	unmatchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
)

// Run starts an interactive session. It uses the terminal front-end when
// both Stdin and Stdout are terminals and Plain is unset, and the
// line-oriented front-end otherwise. A program calling exit ends the session
// with an [*ExitError].
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}

	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	if cfg.Env == nil {
		cfg.Env = lib.Default()
	}

	tui := !cfg.Plain && isTerminal(cfg.Stdin) && isTerminal(cfg.Stdout)

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Bool("tui", tui),
		slog.Bool("watch", cfg.Watch),
		slog.Int("sources", len(cfg.Sources)))

	history := NewHistory("")
	if cfg.CacheDir != "" {
		history = NewHistory(filepath.Join(cfg.CacheDir, baseHistory))
	}

	if err := history.Load(); err != nil {
		fmt.Fprintf(cfg.Stderr, "Warning: could not load history: %v\n", err)
	}

	s := newSession(cfg)

	if tui {
		return runTUI(ctx, cfg, s, history)
	}

	return runPlain(ctx, cfg, s, history)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// session is the environment shared by the front-end and the file watcher.
type session struct {
	mu     sync.Mutex
	env    *lang.Env
	base   *lang.Env
	opts   []lang.Option
	load   func(ctx context.Context, env *lang.Env, path string) error
	logger log.Logger

	// captured collects io library output while the terminal front-end owns
	// the screen. It is nil when output goes straight to Stdout.
	captured *bytes.Buffer
}

func newSession(cfg Config) *session {
	return &session{
		env:    cfg.Env,
		base:   cfg.Env.Clone(),
		opts:   cfg.Options,
		load:   cfg.Load,
		logger: cfg.Logger,
	}
}

// installIO binds the io library to in and out, or to a capture buffer when
// out is nil. The library's own bindings do not count as session changes.
func (s *session) installIO(in io.Reader, out io.Writer) {
	if out == nil {
		s.captured = new(bytes.Buffer)
		out = s.captured
	}

	lib.IO(in, out, requestExit).Install(s.env)

	s.base = s.env.Clone()
}

// evalResult is the outcome of evaluating one input.
type evalResult struct {
	src string
	val lang.Value
	out string
	err error
}

// eval evaluates src and binds a non-Void result to _.
func (s *session) eval(ctx context.Context, src string) (res evalResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res.src = src

	defer func() {
		if s.captured != nil {
			res.out = s.captured.String()
			s.captured.Reset()
		}

		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}

			res.val, res.err = nil, &ExitError{Code: req.code}
		}
	}()

	v, err := lang.Eval(ctx, src, s.env, s.opts...)
	if err != nil {
		res.err = err

		return res
	}

	if _, void := v.(lang.Void); !void {
		s.env.Set("_", v)
	}

	res.val = v

	return res
}

// reload evaluates the source file at path in the session environment.
func (s *session) reload(ctx context.Context, path string) error {
	if s.load == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, s.env, path)
}

// vars lists bindings made during the session, or every binding when all is
// set, one name and value preview per line.
func (s *session) vars(all bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder

	for name, val := range s.env.All() {
		if !all {
			if orig, ok := s.base.Get(name); ok && unchanged(orig, val) {
				continue
			}
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(val)))
	}

	return b.String()
}

// keys returns the bound names in order.
func (s *session) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.env.Keys()
}

// lookup returns the value bound to name.
func (s *session) lookup(name string) (lang.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.env.Get(name)
}

// unchanged reports whether b is the value a was bound to before the session.
func unchanged(a, b lang.Value) bool {
	if a.Type() != b.Type() {
		return false
	}

	switch x := a.(type) {
	case lang.List:
		return lang.Equal(a, b)
	case lang.Float:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(lang.Float)))
	default:
		return a == b
	}
}

// preview renders v on one line, shortened to a readable width.
func preview(v lang.Value) string {
	const limit = 40

	text := v.Repr()

	if lam, ok := v.(*lang.Lambda); ok {
		text = "(" + strings.Join(lam.Params, ", ") + ") : " + lang.Format(lam.Body)
	}

	if r := []rune(text); len(r) > limit {
		return string(r[:limit-3]) + "..."
	}

	return text
}

// errorText renders err the way results are reported.
func errorText(err error) string { return "Error: " + err.Error() }

func isExit(err error) (*ExitError, bool) {
	var e *ExitError
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}
