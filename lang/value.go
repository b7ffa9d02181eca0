package lang

import (
	"math"
	"strconv"
	"strings"
)

// Type identifies the dynamic type of a [Value]. Types are declared in
// width order, cheapest first.
type Type uint8

// Value types.
const (
	TypeInteger Type = iota
	TypeFloat
	TypeComplex
	TypeRatio
	TypeBool
	TypeStr
	TypeList
	TypeFunction
	TypeLambda
	TypeVoid
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "int"
	case TypeFloat:
		return "float"
	case TypeComplex:
		return "complex"
	case TypeRatio:
		return "ratio"
	case TypeBool:
		return "bool"
	case TypeStr:
		return "str"
	case TypeList:
		return "list"
	case TypeFunction:
		return "function"
	case TypeLambda:
		return "lambda"
	case TypeVoid:
		return "void"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The set of implementations is closed: Integer,
// Float, Complex, Ratio, Bool, Str, List, *Function, *Lambda and Void.
type Value interface {
	// Type returns the dynamic type of the value.
	Type() Type
	// String renders the value for display.
	String() string
	// Repr renders the value as source text where possible.
	Repr() string

	value()
}

type (
	// Integer is a 64-bit signed integer.
	Integer int64
	// Float is a 64-bit IEEE-754 float.
	Float float64
	// Complex is a complex number with float64 parts. A zero imaginary part
	// does not demote it to Float.
	Complex complex128
	// Bool is a boolean. Called with two arguments it selects the first
	// (true) or second (false).
	Bool bool
	// Str is a UTF-8 string.
	Str string
	// List is an ordered sequence of values.
	List []Value
	// Void is the absence of a value.
	Void struct{}
)

// NativeFunc is the signature of a host function callable from scripts.
// Implementations check their own arity.
type NativeFunc func(args []Value) (Value, error)

// Function is a named host callable.
type Function struct {
	Name string
	Fn   NativeFunc
}

// NewFunction returns a Function value named name.
func NewFunction(name string, fn NativeFunc) *Function {
	return &Function{Name: name, Fn: fn}
}

// Lambda is a closure created by the ':' operator. Env is a snapshot of the
// environment at creation; later changes to the defining scope are not
// visible through it.
type Lambda struct {
	Params []string
	Body   Node
	Env    *Env
}

func (Integer) Type() Type   { return TypeInteger }
func (Float) Type() Type     { return TypeFloat }
func (Complex) Type() Type   { return TypeComplex }
func (Ratio) Type() Type     { return TypeRatio }
func (Bool) Type() Type      { return TypeBool }
func (Str) Type() Type       { return TypeStr }
func (List) Type() Type      { return TypeList }
func (*Function) Type() Type { return TypeFunction }
func (*Lambda) Type() Type   { return TypeLambda }
func (Void) Type() Type      { return TypeVoid }

func (Integer) value()   {}
func (Float) value()     {}
func (Complex) value()   {}
func (Ratio) value()     {}
func (Bool) value()      {}
func (Str) value()       {}
func (List) value()      {}
func (*Function) value() {}
func (*Lambda) value()   {}
func (Void) value()      {}

func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Float) String() string { return formatFloat(float64(v)) }

func (v Complex) String() string {
	re, im := real(v), imag(v)
	sign := "+"

	if math.Signbit(im) && !math.IsNaN(im) {
		sign = "-"
		im = -im
	}

	return formatFloat(re) + sign + formatFloat(im) + "i"
}

func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

func (v Str) String() string { return string(v) }

func (v List) String() string { return v.render(Value.String) }

func (v *Function) String() string { return "<function>" }

func (v *Lambda) String() string {
	return "<function of " + strconv.Itoa(len(v.Params)) + " args>"
}

func (Void) String() string { return "<void>" }

func (v Integer) Repr() string   { return v.String() }
func (v Float) Repr() string     { return v.String() }
func (v Complex) Repr() string   { return v.String() }
func (v Ratio) Repr() string     { return v.String() }
func (v Bool) Repr() string      { return v.String() }
func (v Str) Repr() string       { return quote(string(v)) }
func (v List) Repr() string      { return v.render(Value.Repr) }
func (v *Function) Repr() string { return v.String() }
func (v *Lambda) Repr() string   { return v.String() }
func (v Void) Repr() string      { return v.String() }

func (v List) render(elem func(Value) string) string {
	var sb strings.Builder

	sb.WriteByte('(')

	for i, e := range v {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(elem(e))
	}

	if len(v) == 1 {
		sb.WriteByte(',')
	}

	sb.WriteByte(')')

	return sb.String()
}

// formatFloat renders f in the shortest decimal form that parses back to f.
// The result always contains a '.', so it never reads back as an Integer.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}

func quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0x1b:
			sb.WriteString(`\e`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				sb.WriteString(`\x`)
				sb.WriteString(strconv.FormatInt(int64(r)|0x100, 16)[1:])
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

// IsCallable reports whether v can appear in call position.
func IsCallable(v Value) bool {
	switch v.(type) {
	case *Function, *Lambda, Bool:
		return true
	default:
		return false
	}
}

// Truthy reports whether v is Bool(true).
func Truthy(v Value) bool {
	b, ok := v.(Bool)

	return ok && bool(b)
}
