package lang

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// mustRatio returns num/den reduced, failing the test binary on an
// unrepresentable ratio.
func mustRatio(num, den int64) Ratio {
	r, ok := NewRatio(num, den)
	if !ok {
		panic(fmt.Sprintf("invalid ratio %d/%d", num, den))
	}

	return r
}

// TestValue_String verifies display and source rendering.
func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		str  string
		repr string
	}{
		{name: "integer", in: Integer(-4), str: "-4", repr: "-4"},
		{name: "whole float", in: Float(1), str: "1.0", repr: "1.0"},
		{name: "fraction", in: Float(0.1), str: "0.1", repr: "0.1"},
		{name: "nan", in: Float(math.NaN()), str: "nan", repr: "nan"},
		{name: "negative infinity", in: Float(math.Inf(-1)), str: "-inf", repr: "-inf"},
		{name: "complex", in: Complex(complex(1, -2)), str: "1.0-2.0i", repr: "1.0-2.0i"},
		{name: "ratio", in: mustRatio(2, -4), str: "-1//2", repr: "-1//2"},
		{name: "bool", in: Bool(true), str: "true", repr: "true"},
		{name: "string", in: Str("a\"b\n\x01"), str: "a\"b\n\x01", repr: `"a\"b\n\x01"`},
		{name: "list", in: List{Integer(1), Str("x")}, str: "(1, x)", repr: `(1, "x")`},
		{name: "single list", in: List{Integer(1)}, str: "(1,)", repr: "(1,)"},
		{name: "function", in: NewFunction("f", nil), str: "<function>", repr: "<function>"},
		{name: "lambda", in: &Lambda{Params: []string{"a", "b"}}, str: "<function of 2 args>", repr: "<function of 2 args>"},
		{name: "void", in: Void{}, str: "<void>", repr: "<void>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}

			if got := tt.in.Repr(); got != tt.repr {
				t.Errorf("Repr() = %q, want %q", got, tt.repr)
			}
		})
	}
}

// TestRatio verifies normalization and exact arithmetic.
func TestRatio(t *testing.T) {
	if _, ok := NewRatio(1, 0); ok {
		t.Error("NewRatio(1, 0) succeeded")
	}

	r, _ := NewRatio(6, -8)
	if r.Num() != -3 || r.Den() != 4 {
		t.Errorf("NewRatio(6, -8) = %d//%d, want -3//4", r.Num(), r.Den())
	}

	if r.Floor() != -1 || r.Ceil() != 0 {
		t.Errorf("Floor, Ceil of -3//4 = %d, %d; want -1, 0", r.Floor(), r.Ceil())
	}

	var zero Ratio
	if zero.Den() != 1 || !zero.IsZero() {
		t.Errorf("zero Ratio = %s, want 0//1", zero)
	}

	got, err := Mod(mustRatio(7, 2), mustRatio(3, 2))
	if err != nil || !sameValue(got, mustRatio(1, 2)) {
		t.Errorf("7//2 %% 3//2 = %v, %v; want 1//2", got, err)
	}

	if _, err := Pow(mustRatio(0, 1), Integer(-1)); !errors.Is(err, ErrWrongArgValue) {
		t.Errorf("0//1 ^ -1 error = %v, want %v", err, ErrWrongArgValue)
	}
}

// TestNewRatio_Limits verifies normalization of extreme operands.
func TestNewRatio_Limits(t *testing.T) {
	tests := []struct {
		name     string
		num, den int64
		wantNum  int64
		wantDen  int64
		ok       bool
	}{
		{name: "min denominator even", num: 2, den: math.MinInt64, wantNum: -1, wantDen: 1 << 62, ok: true},
		{name: "min denominator odd", num: 3, den: math.MinInt64},
		{name: "min over min", num: math.MinInt64, den: math.MinInt64, wantNum: 1, wantDen: 1, ok: true},
		{name: "min numerator", num: math.MinInt64, den: 1, wantNum: math.MinInt64, wantDen: 1, ok: true},
		{name: "min numerator negated", num: math.MinInt64, den: -1},
		{name: "max over negative max", num: math.MaxInt64, den: -math.MaxInt64, wantNum: -1, wantDen: 1, ok: true},
		{name: "zero over negative", num: 0, den: -5, wantNum: 0, wantDen: 1, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := NewRatio(tt.num, tt.den)
			if ok != tt.ok {
				t.Fatalf("NewRatio(%d, %d) ok = %t, want %t", tt.num, tt.den, ok, tt.ok)
			}

			if ok && (r.Num() != tt.wantNum || r.Den() != tt.wantDen) {
				t.Errorf("NewRatio(%d, %d) = %s, want %d//%d", tt.num, tt.den, r, tt.wantNum, tt.wantDen)
			}
		})
	}
}

// TestRatio_Overflow verifies exact arithmetic near the int64 limits. Results
// stay in lowest terms with a positive denominator, and operations whose
// exact result does not fit fail rather than wrap.
func TestRatio_Overflow(t *testing.T) {
	const maxI = math.MaxInt64

	tests := []struct {
		name string
		op   func(a, b Value) (Value, error)
		a, b Value
		want Value
	}{
		{name: "add shares denominator", op: Add, a: mustRatio(1, 1<<32), b: mustRatio(1, 1<<32), want: mustRatio(1, 1<<31)},
		{name: "sub shares denominator", op: Sub, a: mustRatio(3, 1<<40), b: mustRatio(1, 1<<40), want: mustRatio(1, 1<<39)},
		{name: "mul cross reduces", op: Mul, a: mustRatio(maxI, 2), b: mustRatio(2, maxI), want: mustRatio(1, 1)},
		{name: "div cross reduces", op: Div, a: mustRatio(1, 1<<62), b: mustRatio(1, 2), want: mustRatio(1, 1<<61)},
		{name: "frac of large integers", op: Frac, a: Integer(maxI - 1), b: Integer(maxI - 1), want: mustRatio(1, 1)},
		{name: "pow fits", op: Pow, a: mustRatio(2, 1), b: Integer(62), want: mustRatio(1<<62, 1)},
		{name: "pow negative fits", op: Pow, a: mustRatio(1, 2), b: Integer(-62), want: mustRatio(1<<62, 1)},
		{name: "add overflows", op: Add, a: mustRatio(maxI, 1), b: mustRatio(1, 1)},
		{name: "sub overflows", op: Sub, a: mustRatio(-maxI, 1), b: mustRatio(2, 1)},
		{name: "mul overflows", op: Mul, a: mustRatio(1, maxI), b: mustRatio(1, maxI-1)},
		{name: "div overflows", op: Div, a: mustRatio(1, 1<<62), b: mustRatio(4, 1)},
		{name: "pow overflows", op: Pow, a: mustRatio(2, 1), b: Integer(63)},
		{name: "add denominators overflow", op: Add, a: mustRatio(1, maxI), b: mustRatio(1, maxI-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)

			if tt.want == nil {
				if !errors.Is(err, ErrWrongArgValue) {
					t.Fatalf("result = %v, %v; want %v", got, err, ErrWrongArgValue)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !sameValue(got, tt.want) {
				t.Fatalf("result = %s, want %s", got.Repr(), tt.want.Repr())
			}

			r := got.(Ratio)
			if r.Den() <= 0 || gcdU(uabs64(r.Num()), uint64(r.Den())) != 1 {
				t.Errorf("result %s is not in lowest terms", r)
			}
		})
	}
}

// TestRatio_CompareLarge verifies ordering where cross products exceed 64
// bits.
func TestRatio_CompareLarge(t *testing.T) {
	const maxI = math.MaxInt64

	tests := []struct {
		name string
		a, b Ratio
		want int
	}{
		{name: "positive", a: mustRatio(maxI, maxI-1), b: mustRatio(maxI-1, maxI-2), want: -1},
		{name: "negative", a: mustRatio(-maxI, maxI-1), b: mustRatio(-(maxI - 1), maxI-2), want: 1},
		{name: "equal", a: mustRatio(maxI, maxI-1), b: mustRatio(maxI, maxI-1), want: 0},
		{name: "sign", a: mustRatio(-1, maxI), b: mustRatio(1, maxI), want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			if !ok || got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, %t; want %d", tt.a, tt.b, got, ok, tt.want)
			}
		})
	}
}

// TestRatio_NegateMin verifies that negating the most negative numerator
// fails.
func TestRatio_NegateMin(t *testing.T) {
	if got, err := Neg(mustRatio(math.MinInt64, 1)); !errors.Is(err, ErrWrongArgValue) {
		t.Errorf("Neg(MinInt64//1) = %v, %v; want %v", got, err, ErrWrongArgValue)
	}
}

// TestArith_Promotion verifies the result types of mixed arithmetic.
func TestArith_Promotion(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want Value
	}{
		{name: "int plus ratio", op: OpAdd, a: Integer(1), b: mustRatio(1, 2), want: mustRatio(3, 2)},
		{name: "ratio times float", op: OpMul, a: mustRatio(1, 2), b: Float(3), want: Float(1.5)},
		{name: "float plus complex", op: OpAdd, a: Float(1), b: Complex(complex(0, 1)), want: Complex(complex(1, 1))},
		{name: "int frac int", op: OpFrac, a: Integer(6), b: Integer(4), want: mustRatio(3, 2)},
		{name: "ratio div int", op: OpDiv, a: mustRatio(1, 2), b: Integer(2), want: mustRatio(1, 4)},
		{name: "float mod", op: OpMod, a: Float(5.5), b: Integer(2), want: Float(1.5)},
		{name: "complex real power", op: OpPow, a: Complex(complex(0, 1)), b: Integer(2), want: Complex(complex(-1, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Apply(tt.a, tt.b)
			if err != nil {
				t.Fatalf("%s %s %s error: %v", tt.a, tt.op, tt.b, err)
			}

			if got.Type() != tt.want.Type() {
				t.Fatalf("type = %s, want %s", got.Type(), tt.want.Type())
			}

			if c, ok := got.(Complex); ok {
				w := complex128(tt.want.(Complex))
				if math.Abs(real(c)-real(w)) > 1e-12 || math.Abs(imag(c)-imag(w)) > 1e-12 {
					t.Errorf("result = %s, want %s", got, tt.want)
				}

				return
			}

			if !Equal(got, tt.want) {
				t.Errorf("result = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestArith_Errors verifies rejected operand combinations.
func TestArith_Errors(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want error
	}{
		{name: "frac of floats", op: OpFrac, a: Float(1), b: Integer(2), want: ErrWrongOpArgTypes},
		{name: "complex mod", op: OpMod, a: Complex(1), b: Integer(2), want: ErrWrongOpArgTypes},
		{name: "int mod zero", op: OpMod, a: Integer(1), b: Integer(0), want: ErrWrongArgValue},
		{name: "bool minus bool", op: OpSub, a: Bool(true), b: Bool(false), want: ErrWrongOpArgTypes},
		{name: "list times int", op: OpMul, a: List{}, b: Integer(2), want: ErrWrongOpArgTypes},
		{name: "string order", op: OpLt, a: Str("a"), b: Str("b"), want: ErrWrongOpArgTypes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.op.Apply(tt.a, tt.b); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestCompare verifies three-way ordering.
func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
		ok   bool
	}{
		{name: "ints", a: Integer(1), b: Integer(2), want: -1, ok: true},
		{name: "ratio float", a: mustRatio(1, 2), b: Float(0.5), want: 0, ok: true},
		{name: "bools", a: Bool(true), b: Bool(false), want: 1, ok: true},
		{name: "nan", a: Float(math.NaN()), b: Float(1), ok: false},
		{name: "complex", a: Complex(1), b: Integer(1), ok: false},
		{name: "strings", a: Str("a"), b: Str("b"), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("Compare(%s, %s) = %d, %v; want %d, %v", tt.a, tt.b, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// TestEqual_Identity verifies identity equality of callables.
func TestEqual_Identity(t *testing.T) {
	f := NewFunction("f", nil)
	g := NewFunction("f", nil)

	if !Equal(f, f) {
		t.Error("function not equal to itself")
	}

	if Equal(f, g) {
		t.Error("distinct functions compare equal")
	}

	if Equal(Integer(1), Str("1")) {
		t.Error("unrelated types compare equal")
	}
}
