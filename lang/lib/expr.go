package lib

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"

	"github.com/ardnew/complexpr/lang"
)

// Expr returns the expr function, which evaluates an expr-lang expression.
func Expr() Module {
	return Module{
		Name:  "expr",
		Funcs: map[string]lang.NativeFunc{"expr": evalExpr},
	}
}

// evalExpr compiles and runs an expr-lang expression. The optional second
// argument binds variables as a list of (name, value) pairs, the shape of
// $ctx.
func evalExpr(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 2); err != nil {
		return nil, err
	}

	src, err := strArg(args[0])
	if err != nil {
		return nil, err
	}

	env := map[string]any{}

	if len(args) == 2 {
		bind, ok := lang.EnvFromList(args[1])
		if !ok {
			return nil, lang.WrongArgValue(args[1])
		}

		for name, v := range bind.All() {
			env[name] = toExpr(v)
		}
	}

	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, lang.Other(fmt.Sprintf("Inside expr: %s", err))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, lang.Other(fmt.Sprintf("Inside expr: %s", err))
	}

	return fromExpr(out)
}

// toExpr converts v to a value expr-lang can operate on. Ratios become
// floats, and callables become variadic Go functions.
func toExpr(v lang.Value) any {
	switch x := v.(type) {
	case lang.Integer:
		return int(x)
	case lang.Float:
		return float64(x)
	case lang.Ratio:
		return x.Float()
	case lang.Complex:
		return complex128(x)
	case lang.Bool:
		return bool(x)
	case lang.Str:
		return string(x)
	case lang.List:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = toExpr(e)
		}

		return out
	case lang.Void:
		return nil
	default:
		return func(params ...any) (any, error) {
			in := make([]lang.Value, len(params))
			for i, p := range params {
				var err error
				if in[i], err = fromExpr(p); err != nil {
					return nil, err
				}
			}

			res, err := lang.Call(v, in)
			if err != nil {
				return nil, err
			}

			return toExpr(res), nil
		}
	}
}

// fromExpr converts an expr-lang result back to a Value. Maps become lists of
// (key, value) pairs in key order.
func fromExpr(v any) (lang.Value, error) {
	if v == nil {
		return lang.Void{}, nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lang.Integer(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lang.Integer(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return lang.Float(rv.Float()), nil
	case reflect.Complex64, reflect.Complex128:
		return lang.Complex(rv.Complex()), nil
	case reflect.Bool:
		return lang.Bool(rv.Bool()), nil
	case reflect.String:
		return lang.Str(rv.String()), nil
	case reflect.Slice, reflect.Array:
		out := make(lang.List, rv.Len())
		for i := range out {
			e, err := fromExpr(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}

			out[i] = e
		}

		return out, nil
	case reflect.Map:
		env := lang.NewEnv()

		iter := rv.MapRange()
		for iter.Next() {
			e, err := fromExpr(iter.Value().Interface())
			if err != nil {
				return nil, err
			}

			env.Set(fmt.Sprint(iter.Key().Interface()), e)
		}

		return env.List(), nil
	default:
		return nil, lang.Other(fmt.Sprintf("Inside expr: unsupported result type %T", v))
	}
}
