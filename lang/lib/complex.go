package lib

import (
	"math"
	"math/cmplx"

	"github.com/ardnew/complexpr/lang"
)

// Complex returns helpers for complex numbers. Except for from_polar, each
// requires a Complex argument.
func Complex() Module {
	return Module{
		Name: "complex",
		Funcs: map[string]lang.NativeFunc{
			"re":         complexFunc(func(c complex128) lang.Value { return lang.Float(real(c)) }),
			"im":         complexFunc(func(c complex128) lang.Value { return lang.Float(imag(c)) }),
			"conj":       complexFunc(func(c complex128) lang.Value { return lang.Complex(cmplx.Conj(c)) }),
			"arg":        complexFunc(func(c complex128) lang.Value { return lang.Float(cmplx.Phase(c)) }),
			"norm":       complexFunc(func(c complex128) lang.Value { return lang.Float(cmplx.Abs(c)) }),
			"norm_sq":    complexFunc(func(c complex128) lang.Value { return lang.Float(real(c)*real(c) + imag(c)*imag(c)) }),
			"normalize":  complexFunc(normalize),
			"to_polar":   complexFunc(toPolar),
			"from_polar": fromPolar,
			"all_roots":  allRoots,
		},
	}
}

func complexFunc(f func(complex128) lang.Value) lang.NativeFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if err := lang.BoundArgs(len(args), 1, 1); err != nil {
			return nil, err
		}

		c, ok := args[0].(lang.Complex)
		if !ok {
			return nil, lang.WrongArgType(args[0])
		}

		return f(complex128(c)), nil
	}
}

func normalize(c complex128) lang.Value {
	n := cmplx.Abs(c)

	return lang.Complex(complex(real(c)/n, imag(c)/n))
}

func toPolar(c complex128) lang.Value {
	r, theta := cmplx.Polar(c)

	return lang.List{lang.Float(r), lang.Float(theta)}
}

// fromPolar accepts r and theta as two arguments or as one pair.
func fromPolar(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 2); err != nil {
		return nil, err
	}

	if len(args) == 1 {
		pair, ok := args[0].(lang.List)
		if !ok {
			return nil, lang.WrongArgType(args[0])
		}

		if len(pair) != 2 {
			return nil, lang.ListOutOfBounds(1)
		}

		args = pair
	}

	r, err := realArg(args[0])
	if err != nil {
		return nil, err
	}

	theta, err := realArg(args[1])
	if err != nil {
		return nil, err
	}

	return lang.Complex(cmplx.Rect(r, theta)), nil
}

// allRoots returns the n distinct n-th roots of c, starting from the
// principal root and proceeding counterclockwise.
func allRoots(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	c, ok := args[0].(lang.Complex)
	if !ok {
		return nil, lang.WrongArgType(args[0])
	}

	n, err := intArg(args[1])
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		return nil, lang.WrongArgValue(args[1])
	}

	r, theta := cmplx.Polar(complex128(c))
	mod := math.Pow(r, 1/float64(n))

	res := make(lang.List, 0, n)
	for k := range n {
		t := (theta + 2*math.Pi*float64(k)) / float64(n)
		res = append(res, lang.Complex(cmplx.Rect(mod, t)))
	}

	return res, nil
}
