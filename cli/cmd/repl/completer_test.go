package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/complexpr/lang"
	"github.com/ardnew/complexpr/lang/lib"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "x_max", 5, "x_max", 0, 5},
		{"special_form", "$is_s", 5, "$is_s", 0, 5},
		{"after_lambda_colon", "x:(x * sq", 9, "sq", 7, 9},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
		{"multibyte_prefix", "\"é\" + ab", 9, "ab", 7, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestWordBefore(t *testing.T) {
	tests := []struct {
		line string
		pos  int
		want string
	}{
		{"sqr", 3, "sqr"},
		{"1 + sq", 6, "sq"},
		{"1 + sq", 5, "s"},
		{"f(", 2, ""},
		{"", 0, ""},
	}

	for _, tt := range tests {
		if got := wordBefore([]rune(tt.line), tt.pos); got != tt.want {
			t.Errorf("wordBefore(%q, %d) = %q, want %q", tt.line, tt.pos, got, tt.want)
		}
	}
}

func TestCandidates(t *testing.T) {
	env := lang.NewEnv()
	env.Set("alpha", lang.Integer(1))
	env.SetFunction("beta", func([]lang.Value) (lang.Value, error) {
		return lang.Void{}, nil
	})

	s := newSession(Config{Env: env})

	got := s.candidates()

	for _, want := range []string{"alpha", "beta", "$catch", "$ctx"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates() = %v, missing %q", got, want)
		}
	}

	if !slices.IsSorted(got) {
		t.Errorf("candidates() = %v, not sorted", got)
	}

	if s.callable("alpha") {
		t.Error("callable(alpha) = true, want false")
	}

	if !s.callable("beta") || !s.callable("$set") {
		t.Error("callable(beta) or callable($set) = false, want true")
	}

	if s.callable("missing") {
		t.Error("callable(missing) = true, want false")
	}
}

func TestPlainCompleter(t *testing.T) {
	s := newSession(Config{Env: lib.Default()})

	if r := s.eval(t.Context(), "sqrt_two = 1.41421"); r.err != nil {
		t.Fatalf("eval: %v", r.err)
	}

	line := []rune("1 + sqrt_t")

	got, n := plainCompleter{session: s}.Do(line, len(line))
	if n != len("sqrt_t") {
		t.Errorf("Do() length = %d, want %d", n, len("sqrt_t"))
	}

	if len(got) != 1 || string(got[0]) != "wo" {
		t.Errorf("Do() = %q, want [\"wo\"]", got)
	}
}
