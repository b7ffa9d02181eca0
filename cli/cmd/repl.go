package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/complexpr/cli/cmd/repl"
	"github.com/ardnew/complexpr/lang"
	"github.com/ardnew/complexpr/log"
	"github.com/ardnew/complexpr/pkg"
)

// Repl starts an interactive session over the environment built from
// --env and --source.
type Repl struct {
	Plain bool `help:"Use the line-oriented interface even on a terminal"`
	Watch bool `help:"Reload --source files into the session when they change" short:"w"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	sess := sessionFrom(ctx)

	env, err := sess.Environment()
	if err != nil {
		return err
	}

	srcs := sourceFilesFrom(ctx)
	if err := srcs.Load(ctx, sess, env); err != nil {
		return err
	}

	cacheDir := pkg.CacheDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			cacheDir = dir
		}
	}

	log.DebugContext(ctx, "repl",
		slog.String("env", sess.Env),
		slog.Bool("plain", r.Plain),
		slog.Bool("watch", r.Watch))

	err = repl.Run(ctx, repl.Config{
		Env:     env,
		Options: sess.Options(),
		// The io library is rebound to the session's own streams.
		IO:      sess.Env == "full",
		Sources: srcs.Paths(),
		Load: func(ctx context.Context, env *lang.Env, path string) error {
			return LoadFile(ctx, sess, env, path)
		},
		Watch:    r.Watch,
		Plain:    r.Plain,
		CacheDir: cacheDir,
		Stdin:    sess.Stdin,
		Stdout:   sess.Stdout,
		Stderr:   sess.Stderr,
		Logger:   log.Default(),
	})

	var exit *repl.ExitError
	if errors.As(err, &exit) {
		sess.Exit(exit.Code)

		return nil
	}

	if err != nil {
		return ErrREPL.Wrap(err)
	}

	return nil
}
