package lib

import (
	"math"
	"math/cmplx"

	"github.com/ardnew/complexpr/lang"
)

// Num returns the general numeric functions and constants.
func Num() Module {
	return Module{
		Name: "num",
		Funcs: map[string]lang.NativeFunc{
			"min":       extreme(-1),
			"max":       extreme(1),
			"abs":       abs,
			"sqrt":      floatFunc(math.Sqrt, cmplx.Sqrt),
			"exp":       floatFunc(math.Exp, cmplx.Exp),
			"ln":        floatFunc(math.Log, cmplx.Log),
			"log":       logarithm,
			"root":      root,
			"signum":    signum,
			"fract":     fract,
			"floor":     rounding(math.Floor, func(r lang.Ratio) int64 { return r.Floor() }),
			"ceil":      rounding(math.Ceil, func(r lang.Ratio) int64 { return r.Ceil() }),
			"round":     round,
			"gcd":       gcd,
			"factors":   factors,
			"deg2rad":   realFunc(func(x float64) float64 { return x * math.Pi / 180 }),
			"rad2deg":   realFunc(func(x float64) float64 { return x * 180 / math.Pi }),
			"factorial": factorial,
			"gamma":     realFunc(gamma),
			"lambert_w": lambertW,
			"solve":     solve,
		},
		Vars: map[string]lang.Value{
			"pi":      lang.Float(math.Pi),
			"e":       lang.Float(math.E),
			"inf":     lang.Float(math.Inf(1)),
			"neg_inf": lang.Float(math.Inf(-1)),
			"nan":     lang.Float(math.NaN()),
		},
	}
}

func isNaN(v lang.Value) bool {
	switch x := v.(type) {
	case lang.Float:
		return math.IsNaN(float64(x))
	case lang.Complex:
		return cmplx.IsNaN(complex128(x))
	default:
		return false
	}
}

func isInf(v lang.Value) bool {
	switch x := v.(type) {
	case lang.Float:
		return math.IsInf(float64(x), 0)
	case lang.Complex:
		return cmplx.IsInf(complex128(x))
	default:
		return false
	}
}

// extreme returns min (sign -1) or max (sign 1). A later argument replaces
// the current pick only when it orders strictly beyond it, or when the pick
// is NaN.
func extreme(sign int) lang.NativeFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if err := lang.MinArgs(len(args), 1); err != nil {
			return nil, err
		}

		pick := args[0]
		for _, arg := range args[1:] {
			if c, ok := lang.Compare(arg, pick); (ok && c == sign) || isNaN(pick) {
				pick = arg
			}
		}

		return pick, nil
	}
}

func abs(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	switch x := args[0].(type) {
	case lang.Integer:
		if x < 0 {
			return -x, nil
		}

		return x, nil
	case lang.Float:
		return lang.Float(math.Abs(float64(x))), nil
	case lang.Ratio:
		if x.Num() < 0 {
			return lang.Neg(x)
		}

		return x, nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

// logarithm takes the natural log of its argument, or the log in the base
// given by a second argument.
func logarithm(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 2); err != nil {
		return nil, err
	}

	x, err := numberArg(args[0])
	if err != nil {
		return nil, err
	}

	if len(args) == 1 {
		return floatFunc(math.Log, cmplx.Log)(args[:1])
	}

	b, err := numberArg(args[1])
	if err != nil {
		return nil, err
	}

	xf, xReal := x.(lang.Float)
	bf, bReal := b.(lang.Float)

	if xReal && bReal {
		switch bf {
		case 10:
			return lang.Float(math.Log10(float64(xf))), nil
		case 2:
			return lang.Float(math.Log2(float64(xf))), nil
		default:
			return lang.Float(math.Log(float64(xf)) / math.Log(float64(bf))), nil
		}
	}

	xc, _ := lang.ToComplex(x)
	bc, _ := lang.ToComplex(b)

	return lang.Complex(cmplx.Log(complex128(xc)) / cmplx.Log(complex128(bc))), nil
}

// root returns the n-th root of x, computed as x ^ (n ^ -1.0).
func root(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	inv, err := lang.Pow(args[1], lang.Float(-1))
	if err != nil {
		return nil, err
	}

	return lang.Pow(args[0], inv)
}

func signum(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	switch x := args[0].(type) {
	case lang.Integer:
		return lang.Integer(sign64(int64(x))), nil
	case lang.Float:
		if math.IsNaN(float64(x)) {
			return x, nil
		}

		return lang.Float(math.Copysign(1, float64(x))), nil
	case lang.Ratio:
		r, _ := lang.NewRatio(sign64(x.Num()), 1)

		return r, nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

func sign64(n int64) int64 {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func fract(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	frac := func(x float64) float64 { return x - math.Trunc(x) }

	switch x := args[0].(type) {
	case lang.Integer:
		return lang.Integer(0), nil
	case lang.Float:
		return lang.Float(frac(float64(x))), nil
	case lang.Ratio:
		return lang.Sub(x, lang.Integer(x.Num()/x.Den()))
	case lang.Complex:
		return lang.Complex(complex(frac(real(x)), frac(imag(x)))), nil
	default:
		return nil, lang.WrongArgType(x)
	}
}

// rounding lifts a rounding mode into a native function. Integers pass
// through, Ratios round to a whole Ratio and Complex rounds per component.
func rounding(f func(float64) float64, r func(lang.Ratio) int64) lang.NativeFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if err := lang.BoundArgs(len(args), 1, 1); err != nil {
			return nil, err
		}

		switch x := args[0].(type) {
		case lang.Integer:
			return x, nil
		case lang.Float:
			return lang.Float(f(float64(x))), nil
		case lang.Ratio:
			n, _ := lang.NewRatio(r(x), 1)

			return n, nil
		case lang.Complex:
			return lang.Complex(complex(f(real(x)), f(imag(x)))), nil
		default:
			return nil, lang.WrongArgType(x)
		}
	}
}

// roundRatio rounds r to the nearest integer, half away from zero.
func roundRatio(r lang.Ratio) int64 {
	n, d := r.Num(), r.Den()
	q, rem := n/d, n%d

	if rem < 0 {
		rem = -rem
	}

	if 2*rem >= d {
		q += sign64(n)
	}

	return q
}

// round rounds to the nearest integer, or to the number of decimal digits
// given by a second argument.
func round(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 2); err != nil {
		return nil, err
	}

	var digits int64

	if len(args) == 2 {
		var err error
		if digits, err = intArg(args[1]); err != nil {
			return nil, err
		}
	}

	m := math.Pow(10, float64(digits))
	half := func(x float64) float64 { return math.Round(m*x) / m }

	switch x := args[0].(type) {
	case lang.Integer:
		return x, nil
	case lang.Float:
		return lang.Float(half(float64(x))), nil
	case lang.Complex:
		return lang.Complex(complex(half(real(x)), half(imag(x)))), nil
	case lang.Ratio:
		ten, _ := lang.NewRatio(10, 1)

		scale, err := lang.Pow(ten, lang.Integer(digits))
		if err != nil {
			return nil, err
		}

		scaled, err := lang.Mul(x, scale)
		if err != nil {
			return nil, err
		}

		whole := lang.Integer(0)
		if s, ok := scaled.(lang.Ratio); ok {
			whole = lang.Integer(roundRatio(s))
		}

		return lang.Div(whole, scale)
	default:
		return nil, lang.WrongArgType(x)
	}
}

func gcd(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	u, err := intArg(args[0])
	if err != nil {
		return nil, err
	}

	v, err := intArg(args[1])
	if err != nil {
		return nil, err
	}

	u, v = absInt(u), absInt(v)
	for v != 0 {
		u, v = v, u%v
	}

	return lang.Integer(u), nil
}

func absInt(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}

// factors returns the prime factorization of |n| in ascending order.
func factors(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	n, err := intArg(args[0])
	if err != nil {
		return nil, err
	}

	n = absInt(n)
	res := lang.List{}

	if n <= 1 {
		return res, nil
	}

	for n%2 == 0 {
		res = append(res, lang.Integer(2))
		n /= 2
	}

	for f := int64(3); n > 1; {
		if n%f == 0 {
			res = append(res, lang.Integer(f))
			n /= f
		} else {
			f += 2
		}
	}

	return res, nil
}

func factorial(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	n, err := intArg(args[0])
	if err != nil {
		return nil, err
	}

	if n < 0 {
		return nil, lang.WrongArgValue(args[0])
	}

	res := int64(1)
	for i := int64(2); i <= n; i++ {
		res *= i
	}

	return lang.Integer(res), nil
}

//nolint:gochecknoglobals
var gammaCoefficients = [...]float64{
	-0.00000000000000000023, 0.00000000000000000141, 0.00000000000000000119,
	-0.00000000000000011813, 0.00000000000000122678, -0.00000000000000534812,
	-0.00000000000002058326, 0.00000000000051003703, -0.00000000000369680562,
	0.00000000000778226344, 0.00000000010434267117, -0.00000000118127457049,
	0.00000000500200764447, 0.00000000611609510448, -0.00000020563384169776,
	0.00000113302723198170, -0.00000125049348214267, -0.00002013485478078824,
	0.00012805028238811619, -0.00021524167411495097, -0.00116516759185906511,
	0.00721894324666309954, -0.00962197152787697356, -0.04219773455554433675,
	0.16653861138229148950, -0.04200263503409523553, -0.65587807152025388108,
	0.57721566490153286061, 1.00000000000000000000,
}

// gammaSeries approximates the gamma function on [1, 2] by the Taylor series
// of its reciprocal.
func gammaSeries(x float64) float64 {
	sum := 0.00000000000000000002
	for _, c := range gammaCoefficients {
		sum = sum*(x-1) + c
	}

	return 1 / sum
}

func gamma(x float64) float64 {
	switch {
	case x < 0 && x == math.Trunc(x):
		return math.Inf(1)
	case x < 0:
		return (-math.Pi*x + math.Pi) / (gamma(-x+2) * math.Sin(math.Pi*x))
	case x < 1:
		return gammaSeries(x+1) / x
	case x < 2:
		return gammaSeries(x)
	}

	res := 1.0
	for x > 2 {
		x--
		res *= x
	}

	return res * gammaSeries(x)
}

// lambertW returns the principal branch of the Lambert W function by Newton
// iteration. Arguments below -1/e have no real solution.
func lambertW(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	a, err := realArg(args[0])
	if err != nil {
		return nil, err
	}

	if a < -1/math.E {
		return nil, lang.WrongArgValue(lang.Float(a))
	}

	x := 0.75 * math.Log(a+1)
	for range 50 {
		ex := math.Exp(x)

		next := x - (x*ex-a)/(ex*(1+x))
		if next == x {
			break
		}

		x = next
	}

	return lang.Float(x), nil
}

const (
	solveIterations = 100
	solveEpsilon    = 1.0 / (1 << 32)
	solveInvEpsilon = 1 << 32
)

// solve finds a root of fn near guess with Newton's method, estimating the
// derivative by a forward difference.
func solve(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	fn, res := args[0], args[1]

	for range solveIterations {
		y, err := lang.Call(fn, []lang.Value{res})
		if err != nil {
			return nil, err
		}

		if lang.Equal(y, lang.Float(0)) {
			break
		}

		step, err := lang.Add(res, lang.Float(solveEpsilon))
		if err != nil {
			return nil, err
		}

		y1, err := lang.Call(fn, []lang.Value{step})
		if err != nil {
			return nil, err
		}

		next, err := newtonStep(res, y, y1)
		if err != nil {
			return nil, err
		}

		if lang.Equal(next, res) {
			break
		}

		res = next
	}

	return res, nil
}

func newtonStep(x, y, y1 lang.Value) (lang.Value, error) {
	dy, err := lang.Sub(y1, y)
	if err != nil {
		return nil, err
	}

	deriv, err := lang.Mul(dy, lang.Float(solveInvEpsilon))
	if err != nil {
		return nil, err
	}

	q, err := lang.Div(y, deriv)
	if err != nil {
		return nil, err
	}

	return lang.Sub(x, q)
}
