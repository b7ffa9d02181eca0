package lib

import (
	"math"

	"github.com/ardnew/complexpr/lang"
)

// Types returns type predicates and conversions.
func Types() Module {
	return Module{
		Name: "types",
		Funcs: map[string]lang.NativeFunc{
			"typeof":      unary(func(v lang.Value) lang.Value { return lang.Str(v.Type().String()) }),
			"is_int":      isType(lang.TypeInteger),
			"is_float":    isType(lang.TypeFloat),
			"is_ratio":    isType(lang.TypeRatio),
			"is_complex":  isType(lang.TypeComplex),
			"is_bool":     isType(lang.TypeBool),
			"is_list":     isType(lang.TypeList),
			"is_str":      isType(lang.TypeStr),
			"is_void":     isType(lang.TypeVoid),
			"is_callable": unary(func(v lang.Value) lang.Value { return lang.Bool(lang.IsCallable(v)) }),
			"is_infinite": unary(func(v lang.Value) lang.Value { return lang.Bool(isInf(v)) }),
			"is_nan":      unary(func(v lang.Value) lang.Value { return lang.Bool(isNaN(v)) }),
			"is_normal":   unary(isNormal),
			"to_int":      toInt,
			"to_float":    toFloat,
			"to_ratio":    toRatio,
			"to_str":      unary(func(v lang.Value) lang.Value { return lang.Str(v.String()) }),
			"to_repr":     unary(func(v lang.Value) lang.Value { return lang.Str(v.Repr()) }),
		},
	}
}

func unary(f func(lang.Value) lang.Value) lang.NativeFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if err := lang.BoundArgs(len(args), 1, 1); err != nil {
			return nil, err
		}

		return f(args[0]), nil
	}
}

func isType(t lang.Type) lang.NativeFunc {
	return unary(func(v lang.Value) lang.Value { return lang.Bool(v.Type() == t) })
}

// isNormal reports whether v is a finite number.
func isNormal(v lang.Value) lang.Value {
	switch v.(type) {
	case lang.Integer, lang.Ratio:
		return lang.Bool(true)
	case lang.Float, lang.Complex:
		return lang.Bool(!isNaN(v) && !isInf(v))
	default:
		return lang.Bool(false)
	}
}

// toInt truncates a Float toward zero, saturating at the Integer range, and
// floors a Ratio.
func toInt(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	switch x := args[0].(type) {
	case lang.Integer:
		return x, nil
	case lang.Float:
		f := float64(x)

		switch {
		case math.IsNaN(f) || math.IsInf(f, 0):
			return nil, lang.WrongArgValue(x)
		case f >= math.MaxInt64:
			return lang.Integer(math.MaxInt64), nil
		case f <= math.MinInt64:
			return lang.Integer(math.MinInt64), nil
		}

		return lang.Integer(int64(f)), nil
	case lang.Ratio:
		return lang.Integer(x.Floor()), nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

func toFloat(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	f, ok := lang.ToFloat(args[0])
	if !ok {
		return nil, lang.WrongArgType(args[0])
	}

	return f, nil
}

func toRatio(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	switch x := args[0].(type) {
	case lang.Ratio:
		return x, nil
	case lang.Integer:
		r, _ := lang.NewRatio(int64(x), 1)

		return r, nil
	case lang.Float:
		r, ok := approximate(float64(x))
		if !ok {
			return nil, lang.WrongArgValue(x)
		}

		return r, nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

// approximate finds the continued-fraction convergent of f with the smallest
// denominator that converts back to exactly f, or the last convergent that
// fits in 64 bits.
func approximate(f float64) (lang.Ratio, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return lang.Ratio{}, false
	}

	p0, q0, p1, q1 := int64(0), int64(1), int64(1), int64(0)
	x := f

	for range 64 {
		a := math.Floor(x)
		if math.Abs(a) >= math.MaxInt64 {
			break
		}

		ai := int64(a)

		p2, ok1 := mulAdd(ai, p1, p0)
		q2, ok2 := mulAdd(ai, q1, q0)

		if !ok1 || !ok2 {
			break
		}

		p0, q0, p1, q1 = p1, q1, p2, q2

		if float64(p1)/float64(q1) == f || x == a {
			break
		}

		x = 1 / (x - a)
	}

	return lang.NewRatio(p1, q1)
}

// mulAdd returns a*b+c, reporting false on overflow.
func mulAdd(a, b, c int64) (int64, bool) {
	if a != 0 && b != 0 {
		if m := a * b; m/b != a || (a == -1 && b == math.MinInt64) {
			return 0, false
		}
	}

	m := a * b
	s := m + c

	if (c > 0 && s < m) || (c < 0 && s > m) {
		return 0, false
	}

	return s, true
}
