package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format renders n as source text that parses back to an equivalent tree.
// Parentheses are emitted only where precedence requires them.
func Format(n Node) string {
	var sb strings.Builder

	formatNode(&sb, n)

	return sb.String()
}

// Binding weights of rendered nodes, mirroring [Token.Binding].
const (
	precLeaf   = 0
	precCall   = 20
	precLambda = 30
	precNeg    = 35
	precAssign = 100
	precItem   = 109
	precBlock  = 120
)

func precOf(n Node) int {
	switch n := n.(type) {
	case *BinaryNode:
		return Token{Kind: TokOp, Op: n.Op}.Binding()
	case *UnaryNode:
		return precNeg
	case *AssignNode, *AssignOpNode:
		return precAssign
	case *CallNode:
		return precCall
	case *LambdaNode:
		return precLambda
	case *BlockNode:
		return precBlock
	case *LiteralNode:
		return literalPrec(n.Val)
	default:
		return precLeaf
	}
}

// literalPrec reports the binding of the operators a literal's rendering
// contains: "1.0 + 2.0i" is an addition, "1//2" a fraction and "-3" a
// negation.
func literalPrec(v Value) int {
	switch v := v.(type) {
	case Complex:
		c := complex128(v)

		switch {
		case !finiteComplex(c) || real(c) != 0:
			return Token{Kind: TokOp, Op: OpAdd}.Binding()
		case math.Signbit(imag(c)):
			return precNeg
		}
	case Ratio:
		return Token{Kind: TokOp, Op: OpFrac}.Binding()
	case Integer:
		if v < 0 {
			return precNeg
		}
	case Float:
		if math.Signbit(float64(v)) && !math.IsNaN(float64(v)) {
			return precNeg
		}
	}

	return precLeaf
}

// complexSource renders c as source that parses back to c: an imaginary
// literal, or the sum of a real and an imaginary literal.
func complexSource(c complex128) string {
	if !finiteComplex(c) {
		return Complex(c).Repr()
	}

	re, im := real(c), imag(c)
	imText := formatFloat(math.Abs(im)) + "i"

	if re == 0 {
		if math.Signbit(im) {
			return "-" + imText
		}

		return imText
	}

	if math.Signbit(im) {
		return formatFloat(re) + " - " + imText
	}

	return formatFloat(re) + " + " + imText
}

func finiteComplex(c complex128) bool {
	return !math.IsNaN(real(c)) && !math.IsInf(real(c), 0) &&
		!math.IsNaN(imag(c)) && !math.IsInf(imag(c), 0)
}

// formatChild renders n, parenthesized if its binding exceeds limit, or
// equals it and strict is set.
func formatChild(sb *strings.Builder, n Node, limit int, strict bool) {
	p := precOf(n)
	if p > limit || (strict && p == limit) {
		sb.WriteByte('(')
		formatNode(sb, n)
		sb.WriteByte(')')

		return
	}

	formatNode(sb, n)
}

func formatNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *LiteralNode:
		switch v := n.Val.(type) {
		case Void:
		case Complex:
			sb.WriteString(complexSource(complex128(v)))
		default:
			sb.WriteString(v.Repr())
		}

	case *IdentNode:
		sb.WriteString(n.Name)

	case *BinaryNode:
		p := precOf(n)
		right := Token{Kind: TokOp, Op: n.Op}.RightAssoc()

		formatChild(sb, n.Left, p, right)
		sb.WriteString(" " + n.Op.Symbol() + " ")
		formatChild(sb, n.Right, p, !right)

	case *UnaryNode:
		sb.WriteByte('-')
		formatChild(sb, n.X, precNeg, false)

	case *AssignNode:
		sb.WriteString(n.Name + " = ")
		formatChild(sb, n.Value, precAssign, false)

	case *AssignOpNode:
		sb.WriteString(n.Name + " " + n.Op.Symbol() + "= ")
		formatChild(sb, n.Value, precAssign, false)

	case *CallNode:
		formatChild(sb, n.Callee, precCall, false)
		formatItems(sb, n.Args, false)

	case *LambdaNode:
		if len(n.Params) == 1 {
			sb.WriteString(n.Params[0])
		} else {
			sb.WriteString("(" + strings.Join(n.Params, ", ") + ")")
		}

		sb.WriteByte(':')
		formatChild(sb, n.Body, precLambda, true)

	case *ListNode:
		formatItems(sb, n.Items, true)

	case *BlockNode:
		for i, s := range n.Stmts {
			if i > 0 {
				sb.WriteString("; ")
			}

			formatChild(sb, s, precBlock, true)
		}
	}
}

// formatItems renders a parenthesized, comma-separated sequence. A list of
// one item carries a trailing comma to distinguish it from a group.
func formatItems(sb *strings.Builder, items []Node, list bool) {
	sb.WriteByte('(')

	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}

		formatChild(sb, it, precItem, false)
	}

	if list && len(items) == 1 {
		sb.WriteByte(',')
	}

	sb.WriteByte(')')
}

// FormatJSON writes v as JSON to the writer. Nodes and values are converted
// with [NodeMap] and [Native]; anything else is marshalled as is.
func FormatJSON(_ context.Context, w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(toNative(v), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(toNative(v))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes v as YAML to the writer.
func FormatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, toNative(v), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

func toNative(v any) any {
	switch v := v.(type) {
	case Node:
		return NodeMap(v)
	case Value:
		return Native(v)
	default:
		return v
	}
}

// NodeMap converts a syntax tree to nested maps and slices.
func NodeMap(n Node) map[string]any {
	switch n := n.(type) {
	case *BinaryNode:
		return map[string]any{
			"type":  "binary",
			"op":    n.Op.Symbol(),
			"left":  NodeMap(n.Left),
			"right": NodeMap(n.Right),
		}
	case *UnaryNode:
		return map[string]any{"type": "unary", "op": "-", "operand": NodeMap(n.X)}
	case *AssignNode:
		return map[string]any{"type": "assign", "name": n.Name, "value": NodeMap(n.Value)}
	case *AssignOpNode:
		return map[string]any{
			"type":  "assign_op",
			"op":    n.Op.Symbol() + "=",
			"name":  n.Name,
			"value": NodeMap(n.Value),
		}
	case *CallNode:
		return map[string]any{
			"type":   "call",
			"callee": NodeMap(n.Callee),
			"args":   nodeMaps(n.Args),
		}
	case *LambdaNode:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = p
		}

		return map[string]any{"type": "lambda", "params": params, "body": NodeMap(n.Body)}
	case *LiteralNode:
		return map[string]any{
			"type":       "value",
			"value_type": n.Val.Type().String(),
			"value":      Native(n.Val),
		}
	case *IdentNode:
		return map[string]any{"type": "identifier", "name": n.Name}
	case *ListNode:
		return map[string]any{"type": "list", "items": nodeMaps(n.Items)}
	case *BlockNode:
		return map[string]any{"type": "block", "stmts": nodeMaps(n.Stmts)}
	default:
		return map[string]any{"type": "unknown"}
	}
}

func nodeMaps(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = NodeMap(n)
	}

	return out
}

// Native converts v to plain Go data suitable for JSON or YAML encoding.
// Non-finite floats become their source names, and callables their display
// form.
func Native(v Value) any {
	switch v := v.(type) {
	case Integer:
		return int64(v)
	case Float:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v.String()
		}

		return f
	case Complex:
		return map[string]any{"re": Native(Float(real(v))), "im": Native(Float(imag(v)))}
	case Ratio:
		return map[string]any{"num": v.Num(), "den": v.Den()}
	case Bool:
		return bool(v)
	case Str:
		return string(v)
	case List:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Native(e)
		}

		return out
	case Void:
		return nil
	default:
		return v.String()
	}
}
