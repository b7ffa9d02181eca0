package lang

// Simplify returns a copy of n with constant subtrees folded into literals.
// Only operators over literals are folded; names, calls, assignments and
// closures are kept, and any operation that would fail is left in place so
// that the error surfaces at evaluation time. n itself is not modified.
func Simplify(n Node) Node {
	out, _ := fold(n)

	return out
}

// fold returns the simplified node and, if the node is constant, its value.
func fold(n Node) (Node, Value) {
	switch n := n.(type) {
	case *LiteralNode:
		return n, n.Val

	case *IdentNode:
		return n, nil

	case *UnaryNode:
		x, xv := fold(n.X)
		if xv != nil {
			if v, err := Neg(xv); err == nil {
				return &LiteralNode{Val: v}, v
			}
		}

		return &UnaryNode{X: x}, nil

	case *BinaryNode:
		l, lv := fold(n.Left)
		r, rv := fold(n.Right)

		if lv != nil && rv != nil {
			if v, err := n.Op.Apply(lv, rv); err == nil {
				return &LiteralNode{Val: v}, v
			}
		}

		return &BinaryNode{Op: n.Op, Left: l, Right: r}, nil

	case *ListNode:
		items := make([]Node, len(n.Items))
		vals := make(List, 0, len(n.Items))

		for i, it := range n.Items {
			var v Value
			if items[i], v = fold(it); v != nil {
				vals = append(vals, v)
			}
		}

		if len(vals) == len(items) {
			return &LiteralNode{Val: vals}, vals
		}

		return &ListNode{Items: items}, nil

	case *BlockNode:
		return &BlockNode{Stmts: foldAll(n.Stmts)}, nil

	case *CallNode:
		callee, _ := fold(n.Callee)

		return &CallNode{Callee: callee, Args: foldAll(n.Args)}, nil

	case *LambdaNode:
		body, _ := fold(n.Body)

		return &LambdaNode{Params: n.Params, Body: body}, nil

	case *AssignNode:
		val, _ := fold(n.Value)

		return &AssignNode{Name: n.Name, Value: val}, nil

	case *AssignOpNode:
		val, _ := fold(n.Value)

		return &AssignOpNode{Op: n.Op, Name: n.Name, Value: val}, nil
	}

	return n, nil
}

func foldAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}

	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i], _ = fold(n)
	}

	return out
}
