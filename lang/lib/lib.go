package lib

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/ardnew/complexpr/lang"
)

// Module is a named table of native functions and constant bindings.
type Module struct {
	Name  string
	Funcs map[string]lang.NativeFunc
	Vars  map[string]lang.Value
}

// Install binds every function and variable of m into env, replacing any
// existing bindings of the same names.
func (m Module) Install(env *lang.Env) {
	for name, fn := range m.Funcs {
		env.SetFunction(name, fn)
	}

	for name, v := range m.Vars {
		env.Set(name, v)
	}
}

// Len returns the number of bindings m installs.
func (m Module) Len() int { return len(m.Funcs) + len(m.Vars) }

// Build returns a new environment containing every binding of mods. Later
// modules shadow earlier ones.
func Build(mods ...Module) *lang.Env {
	env := lang.NewEnv()
	for _, m := range mods {
		m.Install(env)
	}

	return env
}

// DefaultModules returns the modules of the default environment: arithmetic,
// numerics, complex helpers, type predicates, list utilities and randomness.
func DefaultModules() []Module {
	return []Module{Ops(), Trig(), Num(), Complex(), Types(), Util(), Random()}
}

// FullModules returns the default modules plus those with side effects on the
// host process: standard I/O, environment variables and expr-lang evaluation.
func FullModules() []Module {
	return append(DefaultModules(),
		IO(os.Stdin, os.Stdout, os.Exit),
		Sys(),
		Expr(),
	)
}

// Shared read-only tables, built on first use.
//
//nolint:gochecknoglobals
var (
	emptyEnv   = sync.OnceValue(lang.NewEnv)
	defaultEnv = sync.OnceValue(func() *lang.Env { return Build(DefaultModules()...) })
	fullEnv    = sync.OnceValue(func() *lang.Env { return Build(FullModules()...) })
)

// Empty returns a new environment with no bindings.
func Empty() *lang.Env { return emptyEnv().Clone() }

// Default returns a clone of the default environment. The caller may modify
// it freely.
func Default() *lang.Env { return defaultEnv().Clone() }

// Full returns a clone of the full environment.
func Full() *lang.Env { return fullEnv().Clone() }

// ByName returns a clone of the environment named "empty", "default" or
// "full".
func ByName(name string) (*lang.Env, bool) {
	switch name {
	case "empty":
		return Empty(), true
	case "default":
		return Default(), true
	case "full":
		return Full(), true
	default:
		return nil, false
	}
}

// Eval evaluates src in a clone of the default environment.
func Eval(ctx context.Context, src string, opts ...lang.Option) (lang.Value, error) {
	return lang.Eval(ctx, src, Default(), opts...)
}

// WithIO returns the full environment with standard I/O redirected to in and
// out, and exit reported through exit.
func WithIO(in io.Reader, out io.Writer, exit func(int)) *lang.Env {
	env := Full()
	IO(in, out, exit).Install(env)

	return env
}
