package lib

import (
	"math"
	"math/cmplx"

	"github.com/ardnew/complexpr/lang"
)

// Trig returns the circular and hyperbolic functions and their inverses.
// Each accepts a real or complex argument.
func Trig() Module {
	return Module{
		Name: "trig",
		Funcs: map[string]lang.NativeFunc{
			"sin":   floatFunc(math.Sin, cmplx.Sin),
			"cos":   floatFunc(math.Cos, cmplx.Cos),
			"tan":   floatFunc(math.Tan, cmplx.Tan),
			"sinh":  floatFunc(math.Sinh, cmplx.Sinh),
			"cosh":  floatFunc(math.Cosh, cmplx.Cosh),
			"tanh":  floatFunc(math.Tanh, cmplx.Tanh),
			"asin":  floatFunc(math.Asin, cmplx.Asin),
			"acos":  floatFunc(math.Acos, cmplx.Acos),
			"atan":  floatFunc(math.Atan, cmplx.Atan),
			"asinh": floatFunc(math.Asinh, cmplx.Asinh),
			"acosh": floatFunc(math.Acosh, cmplx.Acosh),
			"atanh": floatFunc(math.Atanh, cmplx.Atanh),
			"atan2": atan2,
		},
	}
}

// atan2 takes y then x.
func atan2(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	y, err := realArg(args[0])
	if err != nil {
		return nil, err
	}

	x, err := realArg(args[1])
	if err != nil {
		return nil, err
	}

	return lang.Float(math.Atan2(y, x)), nil
}
