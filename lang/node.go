package lang

import "strings"

// Node is a syntax tree node. Each node exclusively owns its children.
type Node interface {
	// Eval evaluates the node against env, which assignments modify in place.
	Eval(env *Env) (Value, error)

	node()
}

type (
	// BinaryNode applies a binary operator.
	BinaryNode struct {
		Left, Right Node
		Op          Op
	}

	// UnaryNode negates its operand.
	UnaryNode struct {
		X Node
	}

	// AssignNode binds Name to the value of Value.
	AssignNode struct {
		Value Node
		Name  string
	}

	// AssignOpNode rebinds Name to Name Op Value.
	AssignOpNode struct {
		Value Node
		Name  string
		Op    Op
	}

	// CallNode calls Callee with Args.
	CallNode struct {
		Callee Node
		Args   []Node
	}

	// LambdaNode creates a closure over the current environment.
	LambdaNode struct {
		Body   Node
		Params []string
	}

	// LiteralNode is a constant.
	LiteralNode struct {
		Val Value
	}

	// IdentNode looks up a name.
	IdentNode struct {
		Name string
	}

	// ListNode builds a List from its items.
	ListNode struct {
		Items []Node
	}

	// BlockNode evaluates statements in order and yields the last result.
	BlockNode struct {
		Stmts []Node
	}
)

func (*BinaryNode) node()   {}
func (*UnaryNode) node()    {}
func (*AssignNode) node()   {}
func (*AssignOpNode) node() {}
func (*CallNode) node()     {}
func (*LambdaNode) node()   {}
func (*LiteralNode) node()  {}
func (*IdentNode) node()    {}
func (*ListNode) node()     {}
func (*BlockNode) node()    {}

// specialPrefix marks identifiers handled by the evaluator itself.
const specialPrefix = "$"

// Reserved reports whether name cannot be bound by a script.
func Reserved(name string) bool {
	return name == "true" || name == "false" || strings.HasPrefix(name, specialPrefix)
}

func (n *BinaryNode) Eval(env *Env) (Value, error) {
	l, err := n.Left.Eval(env)
	if err != nil {
		return nil, err
	}

	r, err := n.Right.Eval(env)
	if err != nil {
		return nil, err
	}

	v, err := n.Op.Apply(l, r)
	if err != nil {
		return nil, withTrace(err, OperatorTrace(n.Op.Symbol()))
	}

	return v, nil
}

func (n *UnaryNode) Eval(env *Env) (Value, error) {
	x, err := n.X.Eval(env)
	if err != nil {
		return nil, err
	}

	v, err := Neg(x)
	if err != nil {
		return nil, withTrace(err, OperatorTrace("-"))
	}

	return v, nil
}

func (n *AssignNode) Eval(env *Env) (Value, error) {
	if Reserved(n.Name) {
		return nil, IdentifierReserved(n.Name)
	}

	v, err := n.Value.Eval(env)
	if err != nil {
		return nil, err
	}

	env.Set(n.Name, v)

	return Void{}, nil
}

func (n *AssignOpNode) Eval(env *Env) (Value, error) {
	if Reserved(n.Name) {
		return nil, IdentifierReserved(n.Name)
	}

	prev, ok := env.Get(n.Name)
	if !ok {
		return nil, VariableUnset(n.Name)
	}

	r, err := n.Value.Eval(env)
	if err != nil {
		return nil, err
	}

	v, err := n.Op.Apply(prev, r)
	if err != nil {
		return nil, withTrace(err, OperatorTrace(n.Op.Symbol()+"="))
	}

	env.Set(n.Name, v)

	return Void{}, nil
}

func (n *CallNode) Eval(env *Env) (Value, error) {
	if id, ok := n.Callee.(*IdentNode); ok && strings.HasPrefix(id.Name, specialPrefix) {
		return callSpecial(id.Name, n.Args, env)
	}

	fn, err := n.Callee.Eval(env)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(n.Args))

	for i, a := range n.Args {
		if args[i], err = a.Eval(env); err != nil {
			return nil, err
		}
	}

	return Call(fn, args)
}

func (n *LambdaNode) Eval(env *Env) (Value, error) {
	for _, p := range n.Params {
		if Reserved(p) {
			return nil, IdentifierReserved(p)
		}
	}

	return &Lambda{Params: n.Params, Body: n.Body, Env: env.Clone()}, nil
}

func (n *LiteralNode) Eval(*Env) (Value, error) { return n.Val, nil }

func (n *IdentNode) Eval(env *Env) (Value, error) {
	if strings.HasPrefix(n.Name, specialPrefix) {
		return specialIdent(n.Name, env)
	}

	v, ok := env.Get(n.Name)
	if !ok {
		return nil, VariableUnset(n.Name)
	}

	return v, nil
}

func (n *ListNode) Eval(env *Env) (Value, error) {
	out := make(List, len(n.Items))

	for i, it := range n.Items {
		v, err := it.Eval(env)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func (n *BlockNode) Eval(env *Env) (Value, error) {
	var last Value = Void{}

	for _, s := range n.Stmts {
		v, err := s.Eval(env)
		if err != nil {
			return nil, err
		}

		last = v
	}

	return last, nil
}

// Call invokes fn with args. Native functions are called directly, lambdas
// evaluate their body in a copy of their captured environment with the
// parameters bound, and Bools select the first (true) or second (false) of
// exactly two arguments.
func Call(fn Value, args []Value) (Value, error) {
	switch f := fn.(type) {
	case *Function:
		v, err := f.Fn(args)
		if err != nil {
			return nil, withTrace(err, FunctionTrace(f.Name))
		}

		if v == nil {
			return Void{}, nil
		}

		return v, nil

	case *Lambda:
		if err := BoundArgs(len(args), len(f.Params), len(f.Params)); err != nil {
			return nil, err
		}

		env := f.Env.Clone()
		for i, p := range f.Params {
			env.Set(p, args[i])
		}

		return f.Body.Eval(env)

	case Bool:
		if err := BoundArgs(len(args), 2, 2); err != nil {
			return nil, err
		}

		if f {
			return args[0], nil
		}

		return args[1], nil
	}

	return nil, WrongFunc(fn)
}

// MinArgs fails unless count >= min.
func MinArgs(count, min int) error {
	if count < min {
		return TooFewArgs(min, count)
	}

	return nil
}

// MaxArgs fails unless count <= max.
func MaxArgs(count, max int) error {
	if count > max {
		return TooManyArgs(max, count)
	}

	return nil
}

// BoundArgs fails unless min <= count <= max.
func BoundArgs(count, min, max int) error {
	if err := MinArgs(count, min); err != nil {
		return err
	}

	return MaxArgs(count, max)
}
