package lang

import "log/slog"

// Tree construction errors carry these messages.
const (
	msgNoLParen   = "Unmatched ')'"
	msgNoRParen   = "Unmatched '('"
	msgTokenNoArg = "Operator '%s' is missing an operand"
	msgColonLeft  = "Parameter list must contain only identifiers, found '%s'"
	msgNoOperator = "Token '%s' is not an operator"
	msgNegAfter   = "Operator '-' cannot follow '%s' without parentheses"
)

// item is a node of the group tree: either a single token or a
// parenthesized run of items.
type item struct {
	sub     []item
	tok     Token
	isGroup bool
}

func (it item) String() string {
	if it.isGroup {
		return "(...)"
	}

	return it.tok.String()
}

// group folds tokens into a tree of parenthesized groups. A group that
// directly follows a value is preceded by a synthetic call marker, and a '-'
// in prefix position becomes negation.
func group(tokens []Token) ([]item, error) {
	var (
		out    []item
		depth  int
		start  int
		lastOp = true
	)

	for i, t := range tokens {
		switch {
		case t.Kind == TokLParen:
			if depth == 0 {
				start = i + 1
			}

			depth++
		case t.Kind == TokRParen:
			depth--

			if depth < 0 {
				return nil, ErrNoLParen.Msgf(msgNoLParen).With(slog.Int("pos", t.Pos))
			}

			if depth > 0 {
				continue
			}

			sub, err := group(tokens[start:i])
			if err != nil {
				return nil, err
			}

			if !lastOp {
				out = append(out, item{tok: Token{Kind: TokCall, Pos: tokens[start-1].Pos}})
			}

			out = append(out, item{sub: sub, isGroup: true, tok: tokens[start-1]})
			lastOp = false
		case depth > 0:
		default:
			if lastOp && t.Kind == TokOp && t.Op == OpSub {
				t = Token{Kind: TokNeg, Pos: t.Pos}
			}

			out = append(out, item{tok: t})
			lastOp = t.IsOperator()
		}
	}

	if depth > 0 {
		return nil, ErrNoRParen.Msgf(msgNoRParen).With(slog.Int("pos", tokens[start-1].Pos))
	}

	return out, nil
}

// BuildTree assembles a syntax tree from a token sequence.
func BuildTree(tokens []Token) (Node, error) {
	items, err := group(tokens)
	if err != nil {
		return nil, err
	}

	return finish(items)
}

// split returns the index of the pivot of items: the operator with the
// highest binding. Ties go to the rightmost token for left-associative
// operators and to the leftmost for right-associative ones.
func split(items []item) int {
	best, idx := 0, 0

	for i, it := range items {
		if it.isGroup {
			continue
		}

		b := it.tok.Binding()
		if b > best || (b == best && !it.tok.RightAssoc()) {
			best, idx = b, i
		}
	}

	return idx
}

func finish(items []item) (Node, error) {
	switch len(items) {
	case 0:
		return &ListNode{}, nil
	case 1:
		return finishItem(items[0])
	}

	idx := split(items)
	pivot := items[idx]
	before, after := items[:idx], items[idx+1:]

	if pivot.isGroup || pivot.tok.Binding() == 0 {
		return nil, noOperator(pivot)
	}

	tok := pivot.tok

	switch tok.Kind {
	case TokOp:
		if len(before) == 0 || len(after) == 0 {
			return nil, tokenNoArgs(tok)
		}

		l, err := finish(before)
		if err != nil {
			return nil, err
		}

		r, err := finish(after)
		if err != nil {
			return nil, err
		}

		return &BinaryNode{Op: tok.Op, Left: l, Right: r}, nil

	case TokNeg:
		if len(after) == 0 {
			return nil, tokenNoArgs(tok)
		}

		if len(before) != 0 {
			return nil, ErrNoOperator.
				Msgf(msgNegAfter, before[len(before)-1]).
				With(slog.Int("pos", tok.Pos))
		}

		x, err := finish(after)
		if err != nil {
			return nil, err
		}

		return &UnaryNode{X: x}, nil

	case TokAssign, TokAssignOp:
		if len(before) != 1 || before[0].isGroup || before[0].tok.Kind != TokIdent {
			return nil, ErrAssignLeftInvalid.With(slog.Int("pos", tok.Pos))
		}

		val, err := finish(after)
		if err != nil {
			return nil, err
		}

		name := before[0].tok.Name
		if tok.Kind == TokAssign {
			return &AssignNode{Name: name, Value: val}, nil
		}

		return &AssignOpNode{Op: tok.Op, Name: name, Value: val}, nil

	case TokCall:
		return finishCall(before, after)

	case TokComma:
		return finishList(before, after, tok)

	case TokSemicolon:
		return finishBlock(before, after)

	case TokColon:
		return finishLambda(before, after)
	}

	return nil, noOperator(pivot)
}

func finishItem(it item) (Node, error) {
	if it.isGroup {
		return finish(it.sub)
	}

	t := it.tok

	switch t.Kind {
	case TokValue:
		return &LiteralNode{Val: t.Val}, nil
	case TokImaginary:
		f, _ := t.Val.(Float)

		return &LiteralNode{Val: Complex(complex(0, float64(f)))}, nil
	case TokIdent:
		return &IdentNode{Name: t.Name}, nil
	default:
		return nil, tokenNoArgs(t)
	}
}

func finishCall(before, after []item) (Node, error) {
	callee, err := finish(before)
	if err != nil {
		return nil, err
	}

	args, err := finish(after)
	if err != nil {
		return nil, err
	}

	if list, ok := args.(*ListNode); ok {
		return &CallNode{Callee: callee, Args: list.Items}, nil
	}

	return &CallNode{Callee: callee, Args: []Node{args}}, nil
}

// finishList flattens a chain of commas into one list. A trailing comma
// is permitted, so "(x,)" is a one-element list.
func finishList(before, after []item, comma Token) (Node, error) {
	if len(before) == 0 {
		return nil, tokenNoArgs(comma)
	}

	first, err := finish(before)
	if err != nil {
		return nil, err
	}

	items := []Node{first}

	for rest := after; len(rest) > 0; {
		idx := split(rest)
		if p := rest[idx]; p.isGroup || p.tok.Kind != TokComma {
			n, err := finish(rest)
			if err != nil {
				return nil, err
			}

			items = append(items, n)

			break
		}

		if idx == 0 {
			return nil, tokenNoArgs(rest[0].tok)
		}

		n, err := finish(rest[:idx])
		if err != nil {
			return nil, err
		}

		items = append(items, n)
		rest = rest[idx+1:]
	}

	return &ListNode{Items: items}, nil
}

// finishBlock joins statements into one flat block. An empty statement
// evaluates to Void.
func finishBlock(before, after []item) (Node, error) {
	var stmts []Node

	for _, side := range [][]item{before, after} {
		if len(side) == 0 {
			stmts = append(stmts, &LiteralNode{Val: Void{}})

			continue
		}

		n, err := finish(side)
		if err != nil {
			return nil, err
		}

		if b, ok := n.(*BlockNode); ok && !isGroupOnly(side) {
			stmts = append(stmts, b.Stmts...)
		} else {
			stmts = append(stmts, n)
		}
	}

	return &BlockNode{Stmts: stmts}, nil
}

// isGroupOnly reports whether items is a single parenthesized group.
func isGroupOnly(items []item) bool {
	return len(items) == 1 && items[0].isGroup
}

func finishLambda(before, after []item) (Node, error) {
	params, err := finish(before)
	if err != nil {
		return nil, err
	}

	body, err := finish(after)
	if err != nil {
		return nil, err
	}

	var names []string

	switch p := params.(type) {
	case *IdentNode:
		names = []string{p.Name}
	case *ListNode:
		names = make([]string, 0, len(p.Items))

		for _, it := range p.Items {
			id, ok := it.(*IdentNode)
			if !ok {
				return nil, ErrColonLeftNotIdent.Msgf(msgColonLeft, Format(it))
			}

			names = append(names, id.Name)
		}
	default:
		return nil, ErrColonLeftNotIdent.Msgf(msgColonLeft, Format(params))
	}

	return &LambdaNode{Params: names, Body: body}, nil
}

func tokenNoArgs(t Token) error {
	return ErrTokenNoArgs.Msgf(msgTokenNoArg, t).With(slog.Int("pos", t.Pos))
}

func noOperator(it item) error {
	return ErrNoOperator.Msgf(msgNoOperator, it).With(slog.Int("pos", it.tok.Pos))
}
