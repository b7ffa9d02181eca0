package lib

import "github.com/ardnew/complexpr/lang"

// realArg converts a real number to float64.
func realArg(v lang.Value) (float64, error) {
	f, ok := lang.ToFloat(v)
	if !ok {
		return 0, lang.WrongArgType(v)
	}

	return float64(f), nil
}

// numberArg converts v to Float, or keeps it as Complex.
func numberArg(v lang.Value) (lang.Value, error) {
	if c, ok := v.(lang.Complex); ok {
		return c, nil
	}

	f, ok := lang.ToFloat(v)
	if !ok {
		return nil, lang.WrongArgType(v)
	}

	return f, nil
}

func intArg(v lang.Value) (int64, error) {
	n, ok := v.(lang.Integer)
	if !ok {
		return 0, lang.WrongArgType(v)
	}

	return int64(n), nil
}

func strArg(v lang.Value) (string, error) {
	s, ok := v.(lang.Str)
	if !ok {
		return "", lang.WrongArgType(v)
	}

	return string(s), nil
}

func callableArg(v lang.Value) (lang.Value, error) {
	if !lang.IsCallable(v) {
		return nil, lang.WrongArgType(v)
	}

	return v, nil
}

// floatFunc lifts a real function of one argument, and its complex
// counterpart, into a native function.
func floatFunc(f func(float64) float64, c func(complex128) complex128) lang.NativeFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if err := lang.BoundArgs(len(args), 1, 1); err != nil {
			return nil, err
		}

		v, err := numberArg(args[0])
		if err != nil {
			return nil, err
		}

		if z, ok := v.(lang.Complex); ok {
			return lang.Complex(c(complex128(z))), nil
		}

		return lang.Float(f(float64(v.(lang.Float)))), nil
	}
}

// realFunc lifts a real function of one argument into a native function.
func realFunc(f func(float64) float64) lang.NativeFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if err := lang.BoundArgs(len(args), 1, 1); err != nil {
			return nil, err
		}

		x, err := realArg(args[0])
		if err != nil {
			return nil, err
		}

		return lang.Float(f(x)), nil
	}
}

// fold combines args left to right with op, returning empty when there are
// no arguments.
func fold(op func(a, b lang.Value) (lang.Value, error), empty lang.Value) lang.NativeFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if len(args) == 0 {
			return empty, nil
		}

		res := args[0]
		for _, arg := range args[1:] {
			var err error
			if res, err = op(res, arg); err != nil {
				return nil, err
			}
		}

		return res, nil
	}
}
