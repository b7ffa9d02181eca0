package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/complexpr/cli/cmd"
	"github.com/ardnew/complexpr/log"
	"github.com/ardnew/complexpr/pkg"
)

// CLI is the top-level command-line interface for complexpr.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Env      string   `default:"full" enum:"empty,default,full" help:"Environment programs evaluate in (${enum})." short:"e"`
	Simplify bool     `help:"Simplify constant subexpressions before evaluation." negatable:""`
	Source   []string `help:"Program file(s) evaluated first, or '-' for stdin." name:"source" short:"s" type:"existingfile"`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate expressions (default)."`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format expressions."`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session."`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file."`
	Version cmd.Version `cmd:""                    help:"Print version."`
}

// Run executes the complexpr CLI with the given context and arguments. The
// exit function is called with the exit code of kong failures and of programs
// that call exit.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before parsing, wherever they appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	sess := cmd.DefaultSession()
	sess.Exit = exit
	sess.Env = cli.Env
	sess.Simplify = cli.Simplify

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSession(ctx, sess)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	log.TraceContext(ctx, "run",
		slog.String("command", ktx.Command()),
		slog.String("env", cli.Env))

	return ktx.Run(ctx, &cli)
}
