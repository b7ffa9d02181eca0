package lang

import "os"

// Special identifiers and forms.
const (
	specialCtx     = "$ctx"
	specialInclude = "$include"
	specialCatch   = "$catch"
	specialSet     = "$set"
	specialUnset   = "$unset"
	specialIsSet   = "$is_set"
	specialGet     = "$get"
)

// SpecialForms lists the $-prefixed names accepted in call position.
var SpecialForms = []string{
	specialCatch,
	specialGet,
	specialInclude,
	specialIsSet,
	specialSet,
	specialUnset,
}

// specialIdent resolves a $-prefixed identifier used as a value.
func specialIdent(name string, env *Env) (Value, error) {
	if name == specialCtx {
		return env.List(), nil
	}

	return nil, InvalidSpecialIdent(name)
}

// callSpecial evaluates a special form. Arguments are unevaluated so that
// $catch can defer its fallback.
func callSpecial(name string, args []Node, env *Env) (Value, error) {
	var form func([]Node, *Env) (Value, error)

	switch name {
	case specialInclude:
		form = include
	case specialCatch:
		form = catch
	case specialSet:
		form = set
	case specialUnset:
		form = unset
	case specialIsSet:
		form = isSet
	case specialGet:
		form = get
	default:
		return nil, InvalidSpecialIdent(name)
	}

	v, err := form(args, env)
	if err != nil {
		return nil, withTrace(err, FunctionTrace(name))
	}

	return v, nil
}

// include reads a file and evaluates it in env.
func include(args []Node, env *Env) (Value, error) {
	if err := BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	path, err := evalStr(args[0], env)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, IOError(err)
	}

	root, err := Parse(string(src))
	if err != nil {
		return nil, err
	}

	return root.Eval(env)
}

// catch evaluates its first argument, replacing any error with the value of
// its second argument, or Void.
func catch(args []Node, env *Env) (Value, error) {
	if err := BoundArgs(len(args), 1, 2); err != nil {
		return nil, err
	}

	v, err := args[0].Eval(env)
	if err == nil {
		return v, nil
	}

	if len(args) == 2 {
		return args[1].Eval(env)
	}

	return Void{}, nil
}

func set(args []Node, env *Env) (Value, error) {
	if err := BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	name, err := evalStr(args[0], env)
	if err != nil {
		return nil, err
	}

	if Reserved(name) {
		return nil, IdentifierReserved(name)
	}

	v, err := args[1].Eval(env)
	if err != nil {
		return nil, err
	}

	env.Set(name, v)

	return Void{}, nil
}

func unset(args []Node, env *Env) (Value, error) {
	if err := BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	name, err := evalStr(args[0], env)
	if err != nil {
		return nil, err
	}

	env.Delete(name)

	return Void{}, nil
}

func isSet(args []Node, env *Env) (Value, error) {
	if err := BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	name, err := evalStr(args[0], env)
	if err != nil {
		return nil, err
	}

	return Bool(env.Has(name)), nil
}

func get(args []Node, env *Env) (Value, error) {
	if err := BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	name, err := evalStr(args[0], env)
	if err != nil {
		return nil, err
	}

	v, ok := env.Get(name)
	if !ok {
		return nil, VariableUnset(name)
	}

	return v, nil
}

func evalStr(n Node, env *Env) (string, error) {
	v, err := n.Eval(env)
	if err != nil {
		return "", err
	}

	s, ok := v.(Str)
	if !ok {
		return "", WrongArgType(v)
	}

	return string(s), nil
}
