package lib

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ardnew/complexpr/lang"
)

// Util returns the list, string and control-flow helpers.
func Util() Module {
	return Module{
		Name: "util",
		Funcs: map[string]lang.NativeFunc{
			"eval":      evalSource,
			"map":       mapList,
			"fold":      foldList,
			"rev":       rev,
			"filter":    filter,
			"index":     index,
			"apply":     apply,
			"len":       length,
			"chars":     chars,
			"range":     rangeList,
			"first":     first,
			"repeat":    repeat,
			"enumerate": enumerate,
			"iter":      iterate(false),
			"enumiter":  iterate(true),
			"or_else":   orElse,
			"and_then":  andThen,
			"loop":      loop,
			"error":     raise,
		},
	}
}

// evalSource evaluates a string of source in an empty environment, or in the
// environment reified by a second argument as a list of (name, value) pairs.
func evalSource(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 2); err != nil {
		return nil, err
	}

	src, err := strArg(args[0])
	if err != nil {
		return nil, err
	}

	env := lang.NewEnv()

	if len(args) == 2 {
		var ok bool
		if env, ok = lang.EnvFromList(args[1]); !ok {
			return nil, lang.WrongArgValue(args[1])
		}
	}

	v, err := lang.Eval(context.Background(), src, env)
	if err != nil {
		return nil, lang.Other(fmt.Sprintf("Inside eval: %s", err))
	}

	return v, nil
}

func listArg(v lang.Value) (lang.List, error) {
	l, ok := v.(lang.List)
	if !ok {
		return nil, lang.WrongArgType(v)
	}

	return l, nil
}

func call1(fn, arg lang.Value) (lang.Value, error) {
	return lang.Call(fn, []lang.Value{arg})
}

// mapList applies each of the functions in turn to every element.
func mapList(args []lang.Value) (lang.Value, error) {
	if err := lang.MinArgs(len(args), 1); err != nil {
		return nil, err
	}

	list, err := listArg(args[0])
	if err != nil {
		return nil, err
	}

	res := slices.Clone(list)

	for _, fn := range args[1:] {
		for i, v := range res {
			if res[i], err = call1(fn, v); err != nil {
				return nil, err
			}
		}
	}

	return res, nil
}

// foldList reduces a list with fn(acc, elem). With two arguments the first
// element seeds the accumulator and an empty list gives Void.
func foldList(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 3); err != nil {
		return nil, err
	}

	var acc lang.Value

	if len(args) == 3 {
		acc, args = args[0], args[1:]
	}

	list, err := listArg(args[0])
	if err != nil {
		return nil, err
	}

	fn := args[1]

	if acc == nil {
		if len(list) == 0 {
			return lang.Void{}, nil
		}

		acc, list = list[0], list[1:]
	}

	for _, v := range list {
		if acc, err = lang.Call(fn, []lang.Value{acc, v}); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func rev(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	switch x := args[0].(type) {
	case lang.List:
		res := slices.Clone(x)
		slices.Reverse(res)

		return res, nil
	case lang.Str:
		r := []rune(string(x))
		slices.Reverse(r)

		return lang.Str(r), nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

// filter keeps the elements, or characters, for which fn returns true.
func filter(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	fn := args[1]

	switch x := args[0].(type) {
	case lang.List:
		res := lang.List{}

		for _, v := range x {
			ok, err := call1(fn, v)
			if err != nil {
				return nil, err
			}

			if lang.Truthy(ok) {
				res = append(res, v)
			}
		}

		return res, nil
	case lang.Str:
		var sb strings.Builder

		for _, c := range string(x) {
			ok, err := call1(fn, lang.Str(c))
			if err != nil {
				return nil, err
			}

			if lang.Truthy(ok) {
				sb.WriteRune(c)
			}
		}

		return lang.Str(sb.String()), nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

// index returns the element, or character, at a zero-based position.
func index(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	switch x := args[0].(type) {
	case lang.List:
		i, err := intArg(args[1])
		if err != nil {
			return nil, err
		}

		if i < 0 || i >= int64(len(x)) {
			return nil, lang.ListOutOfBounds(i)
		}

		return x[i], nil
	case lang.Str:
		i, err := intArg(args[1])
		if err != nil {
			return nil, err
		}

		r := []rune(string(x))
		if i < 0 || i >= int64(len(r)) {
			return nil, lang.ListOutOfBounds(i)
		}

		return lang.Str(r[i]), nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

// apply calls fn with the elements of a list as its arguments.
func apply(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	list, err := listArg(args[1])
	if err != nil {
		return nil, err
	}

	return lang.Call(args[0], slices.Clone(list))
}

// length counts list elements or string characters.
func length(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	switch x := args[0].(type) {
	case lang.List:
		return lang.Integer(len(x)), nil
	case lang.Str:
		return lang.Integer(len([]rune(string(x)))), nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

func chars(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	s, err := strArg(args[0])
	if err != nil {
		return nil, err
	}

	res := lang.List{}
	for _, c := range s {
		res = append(res, lang.Str(c))
	}

	return res, nil
}

// rangeList returns the integers of [0, max), [min, max) or every step-th of
// [min, max) for a positive step.
func rangeList(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 3); err != nil {
		return nil, err
	}

	bounds := make([]int64, len(args))
	for i, a := range args {
		n, err := intArg(a)
		if err != nil {
			return nil, err
		}

		bounds[i] = n
	}

	lo, hi, step := int64(0), bounds[0], int64(1)

	switch len(bounds) {
	case 3:
		if bounds[2] <= 0 {
			return nil, lang.WrongArgType(args[2])
		}

		step = bounds[2]

		fallthrough
	case 2:
		lo, hi = bounds[0], bounds[1]
	}

	res := lang.List{}
	for i := lo; i < hi; i += step {
		res = append(res, lang.Integer(i))
	}

	return res, nil
}

func countArg(v lang.Value) (int, error) {
	n, ok := v.(lang.Integer)
	if !ok || n < 0 {
		return 0, lang.WrongArgType(v)
	}

	return int(n), nil
}

// first returns at most n leading elements or characters.
func first(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	switch x := args[0].(type) {
	case lang.List:
		n, err := countArg(args[1])
		if err != nil {
			return nil, err
		}

		return slices.Clone(x[:min(n, len(x))]), nil
	case lang.Str:
		n, err := countArg(args[1])
		if err != nil {
			return nil, err
		}

		r := []rune(string(x))

		return lang.Str(r[:min(n, len(r))]), nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

// repeat concatenates n copies of a list or string.
func repeat(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	switch x := args[0].(type) {
	case lang.List:
		n, err := countArg(args[1])
		if err != nil {
			return nil, err
		}

		return slices.Repeat(slices.Clone(x), n), nil
	case lang.Str:
		n, err := countArg(args[1])
		if err != nil {
			return nil, err
		}

		return lang.Str(strings.Repeat(string(x), n)), nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

// enumerate pairs every element with its index.
func enumerate(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	list, err := listArg(args[0])
	if err != nil {
		return nil, err
	}

	res := make(lang.List, len(list))
	for i, v := range list {
		res[i] = lang.List{lang.Integer(i), v}
	}

	return res, nil
}

// iterate applies fn to init n times. With indexed set, fn also receives the
// iteration number as its first argument.
func iterate(indexed bool) lang.NativeFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if err := lang.BoundArgs(len(args), 3, 3); err != nil {
			return nil, err
		}

		fn, val := args[0], args[1]

		n, err := intArg(args[2])
		if err != nil {
			return nil, err
		}

		for i := range n {
			in := []lang.Value{val}
			if indexed {
				in = []lang.Value{lang.Integer(i), val}
			}

			if val, err = lang.Call(fn, in); err != nil {
				return nil, err
			}
		}

		return val, nil
	}
}

func isVoid(v lang.Value) bool {
	_, ok := v.(lang.Void)

	return ok
}

func orElse(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	if isVoid(args[0]) {
		return args[1], nil
	}

	return args[0], nil
}

func andThen(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	if isVoid(args[0]) {
		return lang.Void{}, nil
	}

	return call1(args[1], args[0])
}

// loop calls fn with no arguments until it returns Void, and returns the
// last value it produced before that.
func loop(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	var res lang.Value = lang.Void{}

	for {
		v, err := lang.Call(args[0], nil)
		if err != nil {
			return nil, err
		}

		if isVoid(v) {
			return res, nil
		}

		res = v
	}
}

// raise fails with the string form of its argument.
func raise(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	return nil, lang.Other(args[0].String()).Traced(lang.ManualTrace())
}
