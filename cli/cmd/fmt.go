package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/complexpr/lang"
)

// Fmt parses expressions and renders them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// fmtInput is the source text shared by the fmt sub-commands.
type fmtInput struct {
	Exprs []string `arg:"" help:"Source text to format; standard input when omitted" name:"expr" optional:""`
}

// programs compiles each expression, or standard input.
func (in fmtInput) programs(ctx context.Context, sess Session, format string) ([]*lang.Program, error) {
	exprs := in.Exprs

	if len(exprs) == 0 {
		data, err := io.ReadAll(sess.Stdin)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("file", stdinSource)).Wrap(err)
		}

		exprs = []string{string(data)}
	}

	progs := make([]*lang.Program, len(exprs))

	for i, src := range exprs {
		p, err := lang.Compile(ctx, src, sess.Options()...)
		if err != nil {
			return nil, ErrFormat.With(slog.String("format", format), slog.String("expr", src)).Wrap(err)
		}

		progs[i] = p
	}

	return progs, nil
}

// Native prints the canonical source form of each expression.
type Native struct {
	fmtInput `embed:""`
}

// Run executes the native command.
func (n *Native) Run(ctx context.Context) error {
	sess := sessionFrom(ctx)

	progs, err := n.programs(ctx, sess, "native")
	if err != nil {
		return err
	}

	for _, p := range progs {
		if _, err := fmt.Fprintln(sess.Stdout, p.Format()); err != nil {
			return err
		}
	}

	return nil
}

// rendered is the tree of a program, or with --value its result.
func rendered(ctx context.Context, sess Session, p *lang.Program, value bool) (any, error) {
	if !value {
		return p.Root, nil
	}

	env, err := sess.Environment()
	if err != nil {
		return nil, err
	}

	v, err := p.Eval(ctx, env)
	if err != nil {
		return nil, ErrEval.With(slog.String("expr", p.Source)).Wrap(err)
	}

	return v, nil
}

// JSON prints the syntax tree, or the value, of each expression as JSON.
type JSON struct {
	fmtInput `embed:""`

	Indent int  `default:"2" help:"Indent width; 0 for compact output" short:"i"`
	Value  bool `help:"Render the evaluated value instead of the syntax tree" short:"v"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	sess := sessionFrom(ctx)

	progs, err := j.programs(ctx, sess, "json")
	if err != nil {
		return err
	}

	for _, p := range progs {
		v, err := rendered(ctx, sess, p, j.Value)
		if err != nil {
			return err
		}

		if err := lang.FormatJSON(ctx, sess.Stdout, v, j.Indent); err != nil {
			return ErrFormat.With(slog.String("format", "json")).Wrap(err)
		}
	}

	return nil
}

// YAML prints the syntax tree, or the value, of each expression as YAML.
type YAML struct {
	fmtInput `embed:""`

	Indent int  `default:"2" help:"Indent width; 0 for flow style" short:"i"`
	Value  bool `help:"Render the evaluated value instead of the syntax tree" short:"v"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	sess := sessionFrom(ctx)

	progs, err := y.programs(ctx, sess, "yaml")
	if err != nil {
		return err
	}

	for i, p := range progs {
		v, err := rendered(ctx, sess, p, y.Value)
		if err != nil {
			return err
		}

		if i > 0 {
			fmt.Fprintln(sess.Stdout, "---")
		}

		if err := lang.FormatYAML(ctx, sess.Stdout, v, y.Indent); err != nil {
			return ErrFormat.With(slog.String("format", "yaml")).Wrap(err)
		}
	}

	return nil
}

// AST prints each syntax tree with one node per line.
type AST struct {
	fmtInput `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	sess := sessionFrom(ctx)

	progs, err := a.programs(ctx, sess, "ast")
	if err != nil {
		return err
	}

	for _, p := range progs {
		var sb strings.Builder

		writeTree(&sb, p.Root, 0)

		if _, err := io.WriteString(sess.Stdout, sb.String()); err != nil {
			return err
		}
	}

	return nil
}

// writeTree writes n and its children, indenting each level by two spaces.
func writeTree(sb *strings.Builder, n lang.Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))

	line := func(format string, args ...any) {
		fmt.Fprintf(sb, format+"\n", args...)
	}

	var children []lang.Node

	switch n := n.(type) {
	case *lang.BinaryNode:
		line("binary %s", n.Op.Symbol())
		children = []lang.Node{n.Left, n.Right}
	case *lang.UnaryNode:
		line("unary -")
		children = []lang.Node{n.X}
	case *lang.AssignNode:
		line("assign %s", n.Name)
		children = []lang.Node{n.Value}
	case *lang.AssignOpNode:
		line("assign %s %s=", n.Name, n.Op.Symbol())
		children = []lang.Node{n.Value}
	case *lang.CallNode:
		line("call")
		children = append([]lang.Node{n.Callee}, n.Args...)
	case *lang.LambdaNode:
		line("lambda (%s)", strings.Join(n.Params, ", "))
		children = []lang.Node{n.Body}
	case *lang.LiteralNode:
		line("value %s %s", n.Val.Type(), n.Val.Repr())
	case *lang.IdentNode:
		line("identifier %s", n.Name)
	case *lang.ListNode:
		line("list")
		children = n.Items
	case *lang.BlockNode:
		line("block")
		children = n.Stmts
	default:
		line("unknown")
	}

	for _, c := range children {
		writeTree(sb, c, depth+1)
	}
}
