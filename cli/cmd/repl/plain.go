package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ardnew/complexpr/lang"
)

// runPlain runs the line-oriented front-end: one input per line, results
// printed as they are computed.
func runPlain(ctx context.Context, cfg Config, s *session, history *History) error {
	terminal := isTerminal(cfg.Stdin) && isTerminal(cfg.Stdout)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 promptStyle.Render(plainPrompt),
		AutoComplete:           plainCompleter{session: s},
		Painter:                parenPainter{},
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "EOF",
		Stdin:                  io.NopCloser(cfg.Stdin),
		Stdout:                 cfg.Stdout,
		Stderr:                 cfg.Stderr,
		FuncIsTerminal:         func() bool { return terminal },
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for _, line := range history.Lines(modeEval) {
		_ = rl.SaveHistory(line)
	}

	if cfg.IO {
		s.installIO(&lineReader{rl: rl}, rl.Stdout())
	}

	if cfg.Watch && len(cfg.Sources) > 0 {
		stop, err := watchSources(ctx, cfg.Sources, cfg.Logger, func(path string) {
			if err := s.reload(ctx, path); err != nil {
				fmt.Fprintln(rl.Stderr(), errorStyle.Render(errorText(err)))

				return
			}

			fmt.Fprintln(rl.Stdout(), hintStyle.Render("reloaded "+path))
		})
		if err != nil {
			return err
		}

		defer stop()
	}

	if terminal {
		fmt.Fprintln(rl.Stdout(), hintStyle.Render("Use exit() or press Ctrl+D to exit, :help for commands"))
	}

	for {
		if err := context.Cause(ctx); err != nil {
			return err
		}

		line, err := rl.Readline()

		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if cmd, ok := strings.CutPrefix(input, ":"); ok {
			_ = history.Add(cmd, modeCtrl)

			quit, err := plainCommand(ctx, cfg, s, rl, strings.TrimSpace(cmd))
			if quit || err != nil {
				return err
			}

			continue
		}

		_ = rl.SaveHistory(input)
		_ = history.Add(input, modeEval)

		cfg.Logger.TraceContext(ctx, "repl eval", slog.String("input", input))

		if err := printResult(rl.Stdout(), s.eval(ctx, input)); err != nil {
			return err
		}
	}
}

// printResult writes the result or error of res. It returns the exit request
// of a program that called exit.
func printResult(w io.Writer, res evalResult) error {
	if exit, ok := isExit(res.err); ok {
		return exit
	}

	switch {
	case res.err != nil:
		fmt.Fprintln(w, errorStyle.Render(errorText(res.err)))
	case res.val != nil && res.val.Type() != lang.TypeVoid:
		fmt.Fprintln(w, res.val.Repr())
	}

	return nil
}

// plainCommand runs a control command and reports whether the session should
// end, with the exit request of an edited program that called exit.
func plainCommand(
	ctx context.Context,
	cfg Config,
	s *session,
	rl *readline.Instance,
	input string,
) (quit bool, err error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false, nil
	}

	out := rl.Stdout()

	switch parts[0] {
	case "q", "quit", "exit":
		return true, nil

	case "h", "help":
		fmt.Fprint(out, helpMessage())

	case "v", "vars":
		fmt.Fprint(out, s.vars(len(parts) > 1 && parts[1] == "all"))

	case "c", "clear":
		_, _ = readline.ClearScreen(out)

	case "e", "edit":
		cmd := &editCommand{
			session: s,
			initial: strings.Join(parts[1:], " "),
			ctxFunc: func() context.Context { return ctx },
			logger:  cfg.Logger,
			stdin:   cfg.Stdin,
			stdout:  cfg.Stdout,
			stderr:  cfg.Stderr,
		}

		if err := cmd.Run(); err != nil {
			if !errors.Is(err, ErrEditDeclined) {
				fmt.Fprintln(out, errorStyle.Render(errorText(err)))
			}

			return false, nil
		}

		if cmd.result.src != "" {
			if err := printResult(out, cmd.result); err != nil {
				return true, err
			}
		}

	default:
		fmt.Fprintln(out, errorStyle.Render("Unknown command: "+parts[0]+" (try 'help')"))
	}

	return false, nil
}

// lineReader feeds the io library's readln from the line editor.
type lineReader struct {
	rl  *readline.Instance
	buf []byte
}

func (r *lineReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		r.rl.SetPrompt("")
		line, err := r.rl.Readline()
		r.rl.SetPrompt(promptStyle.Render(plainPrompt))

		if err != nil {
			return 0, io.EOF
		}

		r.buf = []byte(line + "\n")
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]

	return n, nil
}
