package lang

import "testing"

// TestSimplify verifies constant folding.
func TestSimplify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "1 + 2 * 3", want: "7"},
		{input: "x + 2 * 3", want: "x + 6"},
		{input: "1 / 0", want: "1 / 0"},
		{input: "-(1//2)", want: "-1//2"},
		{input: "(1, 2 + 3)", want: "(1, 5)"},
		{input: "(x, 2 + 3)", want: "(x, 5)"},
		{input: "f(1 + 1)", want: "f(2)"},
		{input: "g = x:(x + 2 * 2)", want: "g = x:(x + 4)"},
		{input: "a = 1 + 1; a += 2 ^ 2", want: "a = 2; a += 4.0"},
		{input: "(2 - 3) ^ x", want: "-1 ^ x"},
		{input: "(1//2) ^ 2 + 1", want: "5//4"},
		{input: "1 + 2i", want: "1.0 + 2.0i"},
		{input: "0 - 2i", want: "-2.0i"},
		{input: "(1 + 2i) * z", want: "(1.0 + 2.0i) * z"},
		{input: `"a" + "b"`, want: `"ab"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got := Format(Simplify(n)); got != tt.want {
				t.Errorf("Format(Simplify(%q)) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSimplify_PreservesValue verifies that folding does not change the
// result of evaluation, and does not modify the input tree.
func TestSimplify_PreservesValue(t *testing.T) {
	inputs := []string{
		"x = 3; x * (2 + 2) - 1//3",
		"f = (a, b):(a ^ (1 + 1) + b); f(2, 3 * 3)",
		"l = (1 + 1, 2 * 2); l + (3,)",
		"(1 > 0)(2 + 2, 3 + 3)",
		"$catch(1 / 0, -(2))",
	}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			n, err := Parse(src)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", src, err)
			}

			before := Format(n)
			s := Simplify(n)

			if after := Format(n); after != before {
				t.Errorf("input modified: %q became %q", before, after)
			}

			want, err := n.Eval(NewEnv())
			if err != nil {
				t.Fatalf("Eval(original) error: %v", err)
			}

			got, err := s.Eval(NewEnv())
			if err != nil {
				t.Fatalf("Eval(simplified) error: %v", err)
			}

			if !sameValue(got, want) {
				t.Errorf("simplified = %s, original = %s", got.Repr(), want.Repr())
			}
		})
	}
}
