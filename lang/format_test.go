package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
)

// TestFormat_Canonical verifies rendering of parsed trees.
func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "1+2*3", want: "1 + 2 * 3"},
		{input: "(1+2)*3", want: "(1 + 2) * 3"},
		{input: "a-(b-c)", want: "a - (b - c)"},
		{input: "(a-b)-c", want: "a - b - c"},
		{input: "2^3^4", want: "2 ^ 3 ^ 4"},
		{input: "(2^3)^4", want: "(2 ^ 3) ^ 4"},
		{input: "f=(a,b):(a+b)", want: "f = (a, b):(a + b)"},
		{input: "x:x", want: "x:x"},
		{input: "x:(-x)", want: "x:(-x)"},
		{input: "(1,)", want: "(1,)"},
		{input: "()", want: "()"},
		{input: "-x", want: "-x"},
		{input: "--x", want: "--x"},
		{input: "f(1,2)", want: "f(1, 2)"},
		{input: "f()", want: "f()"},
		{input: "f(g(x))(y)", want: "f(g(x))(y)"},
		{input: "a=1;b=2", want: "a = 1; b = 2"},
		{input: "a=(b;c)", want: "a = (b; c)"},
		{input: "x+=1", want: "x += 1"},
		{input: `"a\nb"`, want: `"a\nb"`},
		{input: "2.50", want: "2.5"},
		{input: "3i", want: "3.0i"},
		{input: "-3i", want: "-3.0i"},
		{input: "(x:x)(1)", want: "(x:x)(1)"},
		{input: "1;", want: "1; "},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got := Format(n); got != tt.want {
				t.Errorf("Format(Parse(%q)) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFormat_RoundTrip verifies that formatted source parses back to a tree
// with the same rendering and the same value.
func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3 - 4 / 5",
		"(1 + 2) ^ (3 - 4) ^ 2",
		"-(1 + 2) * -3",
		"x = 1; y = x:(x * 2); y(x)",
		"add = (a, b):(a + b); add(1//2, 0.25)",
		"(1, (2, 3), (4,))",
		"1 + 2i == 2i + 1",
		"z = 3 - 4i; z * -1i",
		"true(1, 2) + false(3, 4)",
		`"q\"uote" + "\ttab"`,
		"a = 3; a %= 2; a",
	}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			n1, err := Parse(src)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", src, err)
			}

			out := Format(n1)

			n2, err := Parse(out)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", out, err)
			}

			if again := Format(n2); again != out {
				t.Errorf("second Format = %q, want %q", again, out)
			}

			v1, err1 := n1.Eval(NewEnv())
			v2, err2 := n2.Eval(NewEnv())

			if (err1 == nil) != (err2 == nil) {
				t.Fatalf("errors differ: %v vs %v", err1, err2)
			}

			if err1 == nil && !sameValue(v1, v2) {
				t.Errorf("values differ: %s vs %s", v1.Repr(), v2.Repr())
			}
		})
	}
}

// TestFormat_Literals verifies that folded literals keep their meaning when
// rendered in operator position.
func TestFormat_Literals(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "negative base",
			node: &BinaryNode{Op: OpPow, Left: &LiteralNode{Val: Integer(-2)}, Right: &LiteralNode{Val: Integer(2)}},
			want: "-2 ^ 2",
		},
		{
			name: "negative exponent",
			node: &BinaryNode{Op: OpMul, Left: &IdentNode{Name: "x"}, Right: &LiteralNode{Val: Integer(-2)}},
			want: "x * -2",
		},
		{
			name: "ratio operand",
			node: &BinaryNode{Op: OpPow, Left: &LiteralNode{Val: mustRatio(1, 2)}, Right: &IdentNode{Name: "n"}},
			want: "(1//2) ^ n",
		},
		{
			name: "complex operand",
			node: &BinaryNode{Op: OpMul, Left: &LiteralNode{Val: Complex(complex(1, 2))}, Right: &IdentNode{Name: "z"}},
			want: "(1.0 + 2.0i) * z",
		},
		{
			name: "imaginary operand",
			node: &BinaryNode{Op: OpMul, Left: &IdentNode{Name: "x"}, Right: &LiteralNode{Val: Complex(complex(0, 2))}},
			want: "x * 2.0i",
		},
		{
			name: "negative imaginary base",
			node: &BinaryNode{Op: OpPow, Left: &LiteralNode{Val: Complex(complex(0, -2))}, Right: &IdentNode{Name: "n"}},
			want: "-2.0i ^ n",
		},
		{
			name: "complex with negative imaginary part",
			node: &LiteralNode{Val: Complex(complex(1, -2))},
			want: "1.0 - 2.0i",
		},
		{
			name: "literal list",
			node: &LiteralNode{Val: List{Integer(1), Str("a")}},
			want: `(1, "a")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.node); got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFormatJSON verifies the JSON tree shape.
func TestFormatJSON(t *testing.T) {
	n, err := Parse("x = 1 + y")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := FormatJSON(context.Background(), &buf, n, 0); err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if got["type"] != "assign" || got["name"] != "x" {
		t.Errorf("root = %v, want assign to x", got)
	}

	value, ok := got["value"].(map[string]any)
	if !ok || value["type"] != "binary" || value["op"] != "+" {
		t.Errorf("value = %v, want binary +", got["value"])
	}
}

// TestFormatYAML verifies YAML rendering of values.
func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer

	v := List{Integer(1), Str("two"), mustRatio(1, 3)}
	if err := FormatYAML(context.Background(), &buf, v, 2); err != nil {
		t.Fatalf("FormatYAML error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"- 1", "- two", "num: 1", "den: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

// TestNative verifies conversion of values to plain Go data.
func TestNative(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want any
	}{
		{name: "integer", in: Integer(3), want: int64(3)},
		{name: "float", in: Float(1.5), want: 1.5},
		{name: "bool", in: Bool(true), want: true},
		{name: "str", in: Str("s"), want: "s"},
		{name: "void", in: Void{}, want: nil},
		{name: "infinity", in: Float(math.Inf(1)), want: "inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Native(tt.in); got != tt.want {
				t.Errorf("Native(%s) = %#v, want %#v", tt.in.Repr(), got, tt.want)
			}
		})
	}
}
