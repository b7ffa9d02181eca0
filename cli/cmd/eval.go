package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/complexpr/lang"
	"github.com/ardnew/complexpr/log"
)

// Eval evaluates the --source files and then each expression in one
// environment, printing every result that is not Void.
type Eval struct {
	Exprs []string `arg:"" help:"Expressions to evaluate in order; standard input when omitted and no --source is given" name:"expr" optional:""`
	Raw   bool     `help:"Print strings without quotes or escapes" short:"r"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess := sessionFrom(ctx)

	env, err := sess.Environment()
	if err != nil {
		return err
	}

	srcs := sourceFilesFrom(ctx)
	if err := srcs.Load(ctx, sess, env); err != nil {
		return err
	}

	exprs := e.Exprs

	if len(exprs) == 0 && srcs.IsZero() {
		data, err := io.ReadAll(sess.Stdin)
		if err != nil {
			return ErrReadSource.With(slog.String("file", stdinSource)).Wrap(err)
		}

		exprs = []string{string(data)}
	}

	for i, src := range exprs {
		v, err := lang.Eval(ctx, src, env, sess.Options()...)
		if err != nil {
			return ErrEval.With(slog.Int("index", i), slog.String("expr", src)).Wrap(err)
		}

		log.TraceContext(ctx, "evaluated",
			slog.Int("index", i),
			slog.String("type", v.Type().String()))

		if _, void := v.(lang.Void); void {
			continue
		}

		// The result stays bound to _ as in the REPL.
		env.Set("_", v)

		out := v.Repr()
		if e.Raw {
			out = v.String()
		}

		if _, err := fmt.Fprintln(sess.Stdout, out); err != nil {
			return err
		}
	}

	return nil
}
