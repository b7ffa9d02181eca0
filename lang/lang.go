package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/complexpr/log"
)

// Option configures a [Program].
type Option func(*Program)

// WithLogger sets the logger that receives trace-level compile and
// evaluation events.
func WithLogger(logger log.Logger) Option {
	return func(p *Program) { p.logger = logger }
}

// WithSimplify enables constant folding of the compiled tree.
func WithSimplify(enable bool) Option {
	return func(p *Program) { p.simplify = enable }
}

// Program is a compiled source text.
type Program struct {
	Root     Node
	Source   string
	logger   log.Logger
	simplify bool
}

// Parse tokenizes src and builds its syntax tree.
func Parse(src string) (Node, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	return BuildTree(tokens)
}

// Compile parses src into a Program.
func Compile(ctx context.Context, src string, opts ...Option) (*Program, error) {
	p := &Program{Source: src}

	for _, opt := range opts {
		opt(p)
	}

	tokens, err := Tokenize(src)
	if err != nil {
		p.logger.TraceContext(ctx, "tokenize failed", log.Err(err))

		return nil, err
	}

	root, err := BuildTree(tokens)
	if err != nil {
		p.logger.TraceContext(ctx, "build tree failed", log.Err(err))

		return nil, err
	}

	if p.simplify {
		root = Simplify(root)
	}

	p.Root = root

	p.logger.TraceContext(ctx, "compile complete",
		slog.Int("source_length", len(src)),
		slog.Int("token_count", len(tokens)),
		slog.Int("node_count", countNodes(root)),
		slog.Bool("simplify", p.simplify))

	return p, nil
}

// CompileReader compiles the contents of r.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, IOError(err)
	}

	return Compile(ctx, string(data), opts...)
}

// Eval evaluates the program against env, which it may modify.
//
// Evaluation runs to completion once started, except that the statements of
// a top-level block are separated by checks of ctx: a cancelled context
// stops the program before its next statement.
func (p *Program) Eval(ctx context.Context, env *Env) (Value, error) {
	var (
		v   Value
		err error
	)

	if block, ok := p.Root.(*BlockNode); ok {
		v = Void{}

		for _, s := range block.Stmts {
			if err = context.Cause(ctx); err != nil {
				break
			}

			if v, err = s.Eval(env); err != nil {
				break
			}
		}
	} else if err = context.Cause(ctx); err == nil {
		v, err = p.Root.Eval(env)
	}

	if err != nil {
		p.logger.TraceContext(ctx, "eval failed", log.Err(err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "eval complete", slog.String("type", v.Type().String()))

	return v, nil
}

// Format renders the program's tree as source text.
func (p *Program) Format() string { return Format(p.Root) }

// Eval compiles and evaluates src against env.
func Eval(ctx context.Context, src string, env *Env, opts ...Option) (Value, error) {
	p, err := Compile(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return p.Eval(ctx, env)
}

func countNodes(n Node) int {
	switch n := n.(type) {
	case *BinaryNode:
		return 1 + countNodes(n.Left) + countNodes(n.Right)
	case *UnaryNode:
		return 1 + countNodes(n.X)
	case *AssignNode:
		return 1 + countNodes(n.Value)
	case *AssignOpNode:
		return 1 + countNodes(n.Value)
	case *CallNode:
		return 1 + countNodes(n.Callee) + countAll(n.Args)
	case *LambdaNode:
		return 1 + countNodes(n.Body)
	case *ListNode:
		return 1 + countAll(n.Items)
	case *BlockNode:
		return 1 + countAll(n.Stmts)
	default:
		return 1
	}
}

func countAll(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += countNodes(n)
	}

	return total
}
