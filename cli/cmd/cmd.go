package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/complexpr/lang"
	"github.com/ardnew/complexpr/lang/lib"
	"github.com/ardnew/complexpr/log"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Session holds the evaluation settings and standard streams shared by every
// command. Zero fields take the defaults of [DefaultSession].
type Session struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Exit     func(code int)
	Env      string
	Simplify bool
}

// DefaultSession evaluates in the full environment over the process streams.
func DefaultSession() Session {
	return Session{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Exit:   os.Exit,
		Env:    "full",
	}
}

type sessionKey struct{}

// WithSession returns a new context.Context containing s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	d := DefaultSession()

	if s.Stdin == nil {
		s.Stdin = d.Stdin
	}

	if s.Stdout == nil {
		s.Stdout = d.Stdout
	}

	if s.Stderr == nil {
		s.Stderr = d.Stderr
	}

	if s.Exit == nil {
		s.Exit = d.Exit
	}

	if s.Env == "" {
		s.Env = d.Env
	}

	return s
}

// Environment returns a fresh environment of the named kind. In the full
// environment the I/O functions use the session streams.
func (s Session) Environment() (*lang.Env, error) {
	if s.Env == "full" {
		return lib.WithIO(s.Stdin, s.Stdout, s.Exit), nil
	}

	env, ok := lib.ByName(s.Env)
	if !ok {
		return nil, ErrUnknownEnv.With(slog.String("env", s.Env))
	}

	return env, nil
}

// Options returns the compile options of the session.
func (s Session) Options() []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithSimplify(s.Simplify),
	}
}
