package lang

import (
	"math"
	"math/cmplx"
)

// level is a rung of the numeric promotion lattice. Two operands are
// converted to the higher of their levels before an arithmetic operator is
// applied.
type level uint8

const (
	levelNone level = iota
	levelInteger
	levelRatio
	levelFloat
	levelComplex
)

func levelOf(v Value) level {
	switch v.(type) {
	case Integer:
		return levelInteger
	case Ratio:
		return levelRatio
	case Float:
		return levelFloat
	case Complex:
		return levelComplex
	default:
		return levelNone
	}
}

// promote converts a and b to their common numeric level. It returns
// levelNone when either operand is not a number.
func promote(a, b Value) (Value, Value, level) {
	la, lb := levelOf(a), levelOf(b)
	if la == levelNone || lb == levelNone {
		return a, b, levelNone
	}

	l := max(la, lb)

	return convert(a, l), convert(b, l), l
}

func convert(v Value, l level) Value {
	switch l {
	case levelRatio:
		if n, ok := v.(Integer); ok {
			return ratioOf(int64(n))
		}
	case levelFloat:
		if f, ok := ToFloat(v); ok {
			return f
		}
	case levelComplex:
		if c, ok := ToComplex(v); ok {
			return c
		}
	}

	return v
}

// ToFloat converts a real number to Float.
func ToFloat(v Value) (Float, bool) {
	switch x := v.(type) {
	case Integer:
		return Float(x), true
	case Float:
		return x, true
	case Ratio:
		return Float(x.Float()), true
	default:
		return 0, false
	}
}

// ToComplex converts any number to Complex.
func ToComplex(v Value) (Complex, bool) {
	if c, ok := v.(Complex); ok {
		return c, true
	}

	f, ok := ToFloat(v)

	return Complex(complex(float64(f), 0)), ok
}

// Add returns a+b. Bool operands combine with logical OR, and lists and
// strings concatenate.
func Add(a, b Value) (Value, error) {
	x, y, l := promote(a, b)

	switch l {
	case levelInteger:
		return x.(Integer) + y.(Integer), nil
	case levelRatio:
		return checkRatio(a, b)(x.(Ratio).add(y.(Ratio)))
	case levelFloat:
		return x.(Float) + y.(Float), nil
	case levelComplex:
		return x.(Complex) + y.(Complex), nil
	}

	switch x := a.(type) {
	case Bool:
		if y, ok := b.(Bool); ok {
			return x || y, nil
		}
	case Str:
		if y, ok := b.(Str); ok {
			return x + y, nil
		}
	case List:
		if y, ok := b.(List); ok {
			out := make(List, 0, len(x)+len(y))

			return append(append(out, x...), y...), nil
		}
	}

	return nil, WrongOpArgTypes(a, b)
}

// Sub returns a-b.
func Sub(a, b Value) (Value, error) {
	x, y, l := promote(a, b)

	switch l {
	case levelInteger:
		return x.(Integer) - y.(Integer), nil
	case levelRatio:
		return checkRatio(a, b)(x.(Ratio).sub(y.(Ratio)))
	case levelFloat:
		return x.(Float) - y.(Float), nil
	case levelComplex:
		return x.(Complex) - y.(Complex), nil
	}

	return nil, WrongOpArgTypes(a, b)
}

// Mul returns a*b. Bool operands combine with logical AND.
func Mul(a, b Value) (Value, error) {
	x, y, l := promote(a, b)

	switch l {
	case levelInteger:
		return x.(Integer) * y.(Integer), nil
	case levelRatio:
		return checkRatio(a, b)(x.(Ratio).mul(y.(Ratio)))
	case levelFloat:
		return x.(Float) * y.(Float), nil
	case levelComplex:
		return x.(Complex) * y.(Complex), nil
	}

	if x, ok := a.(Bool); ok {
		if y, ok := b.(Bool); ok {
			return x && y, nil
		}
	}

	return nil, WrongOpArgTypes(a, b)
}

// Div returns a/b. Integer division promotes to Float; Ratio division stays
// exact. Exact division by a zero Integer or Ratio fails with WrongArgValue.
func Div(a, b Value) (Value, error) {
	x, y, l := promote(a, b)

	switch l {
	case levelInteger, levelRatio:
		if isExactZero(b) {
			return nil, WrongArgValue(b)
		}

		if l == levelInteger {
			return Float(x.(Integer)) / Float(y.(Integer)), nil
		}

		return checkRatio(a, b)(x.(Ratio).quo(y.(Ratio)))
	case levelFloat:
		return x.(Float) / y.(Float), nil
	case levelComplex:
		return x.(Complex) / y.(Complex), nil
	}

	return nil, WrongOpArgTypes(a, b)
}

// Mod returns the remainder of a/b, truncated toward zero.
func Mod(a, b Value) (Value, error) {
	x, y, l := promote(a, b)

	switch l {
	case levelInteger, levelRatio:
		if isExactZero(b) {
			return nil, WrongArgValue(b)
		}

		if l == levelInteger {
			return x.(Integer) % y.(Integer), nil
		}

		return checkRatio(a, b)(x.(Ratio).rem(y.(Ratio)))
	case levelFloat:
		return Float(math.Mod(float64(x.(Float)), float64(y.(Float)))), nil
	}

	return nil, WrongOpArgTypes(a, b)
}

// Frac returns the exact quotient a/b of two Integers or Ratios.
func Frac(a, b Value) (Value, error) {
	x, y, l := promote(a, b)
	if l != levelInteger && l != levelRatio {
		return nil, WrongOpArgTypes(a, b)
	}

	if isExactZero(b) {
		return nil, WrongArgValue(b)
	}

	return checkRatio(a, b)(convert(x, levelRatio).(Ratio).quo(convert(y, levelRatio).(Ratio)))
}

// Pow returns a raised to b. Real powers produce Float except a Ratio raised
// to an Integer, which stays exact. Bool operands combine with XOR.
func Pow(a, b Value) (Value, error) {
	if r, ok := a.(Ratio); ok {
		if n, ok := b.(Integer); ok {
			p, err := r.pow(int64(n))
			if err != nil {
				return nil, err
			}

			return p, nil
		}
	}

	switch l := max(levelOf(a), levelOf(b)); {
	case levelOf(a) == levelNone || levelOf(b) == levelNone:
	case l == levelComplex:
		x, _ := ToComplex(a)
		y, _ := ToComplex(b)

		if imag(y) == 0 {
			return Complex(cpowReal(complex128(x), real(y))), nil
		}

		return Complex(cmplx.Pow(complex128(x), complex128(y))), nil
	default:
		x, _ := ToFloat(a)
		y, _ := ToFloat(b)

		return Float(math.Pow(float64(x), float64(y))), nil
	}

	if x, ok := a.(Bool); ok {
		if y, ok := b.(Bool); ok {
			return Bool(x != y), nil
		}
	}

	return nil, WrongOpArgTypes(a, b)
}

// checkRatio returns the result of a checked Ratio operation on operands a
// and b, failing on overflow.
func checkRatio(a, b Value) func(Ratio, bool) (Value, error) {
	return func(r Ratio, ok bool) (Value, error) {
		if !ok {
			return nil, RatioOverflow(a, b)
		}

		return r, nil
	}
}

// cpowReal raises z to a real power in polar form.
func cpowReal(z complex128, p float64) complex128 {
	if z == 0 {
		if p == 0 {
			return 1
		}

		return 0
	}

	r, theta := cmplx.Polar(z)

	return cmplx.Rect(math.Pow(r, p), theta*p)
}

// Neg returns -a.
func Neg(a Value) (Value, error) {
	switch x := a.(type) {
	case Integer:
		return -x, nil
	case Float:
		return -x, nil
	case Ratio:
		if r, ok := x.neg(); ok {
			return r, nil
		}

		return nil, RatioOverflow(a, Integer(-1))
	case Complex:
		return -x, nil
	default:
		return nil, WrongArgType(a)
	}
}

func isExactZero(v Value) bool {
	switch x := v.(type) {
	case Integer:
		return x == 0
	case Ratio:
		return x.IsZero()
	default:
		return false
	}
}
