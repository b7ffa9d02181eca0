package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestNativeRun(t *testing.T) {
	tests := []struct {
		name  string
		exprs []string
		stdin string
		want  string
	}{
		{name: "spacing", exprs: []string{"1+2*3"}, want: "1 + 2 * 3\n"},
		{name: "redundant_group", exprs: []string{"(a-b)-c"}, want: "a - b - c\n"},
		{name: "lambda", exprs: []string{"f=(a,b):(a+b)"}, want: "f = (a, b):(a + b)\n"},
		{name: "several", exprs: []string{"x=1", "f(x,2)"}, want: "x = 1\nf(x, 2)\n"},
		{name: "stdin", stdin: "(1,)", want: "(1,)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testSession(t, "default", tt.stdin)

			if err := (&Native{fmtInput{Exprs: tt.exprs}}).Run(ctx); err != nil {
				t.Fatalf("Native.Run() error: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Native.Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtInvalidSyntax(t *testing.T) {
	inputs := []string{"(1", "1)", "1 +", "1 2", "1 = 2"}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			ctx, _ := testSession(t, "default", "")
			in := fmtInput{Exprs: []string{src}}

			errs := map[string]error{
				"native": (&Native{in}).Run(ctx),
				"json":   (&JSON{fmtInput: in}).Run(ctx),
				"yaml":   (&YAML{fmtInput: in}).Run(ctx),
				"ast":    (&AST{in}).Run(ctx),
			}

			for format, err := range errs {
				if !errors.Is(err, ErrFormat) {
					t.Errorf("%s: error = %v, want ErrFormat", format, err)
				}
			}
		})
	}
}

func TestJSONRun(t *testing.T) {
	ctx, out := testSession(t, "default", "")

	if err := (&JSON{fmtInput: fmtInput{Exprs: []string{"1 + x"}}, Indent: 2}).Run(ctx); err != nil {
		t.Fatalf("JSON.Run() error: %v", err)
	}

	var tree map[string]any
	if err := json.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}

	if len(tree) == 0 {
		t.Errorf("JSON.Run() rendered an empty tree")
	}

	out.Reset()

	err := (&JSON{fmtInput: fmtInput{Exprs: []string{"(1, 2.5, \"a\")"}}, Value: true}).Run(ctx)
	if err != nil {
		t.Fatalf("JSON.Run(--value) error: %v", err)
	}

	if got, want := strings.TrimSpace(out.String()), `[1,2.5,"a"]`; got != want {
		t.Errorf("JSON.Run(--value) = %q, want %q", got, want)
	}

	if err := (&JSON{fmtInput: fmtInput{Exprs: []string{"missing"}}, Value: true}).Run(ctx); !errors.Is(err, ErrEval) {
		t.Errorf("JSON.Run(--value missing) error = %v, want ErrEval", err)
	}
}

func TestYAMLRun(t *testing.T) {
	ctx, out := testSession(t, "default", "")

	err := (&YAML{fmtInput: fmtInput{Exprs: []string{"2 * 3", "1 // 2"}}, Indent: 2, Value: true}).Run(ctx)
	if err != nil {
		t.Fatalf("YAML.Run() error: %v", err)
	}

	docs := strings.Split(out.String(), "---\n")
	if len(docs) != 2 {
		t.Fatalf("YAML.Run() wrote %d documents, want 2:\n%s", len(docs), out.String())
	}

	var n int
	if err := yaml.Unmarshal([]byte(docs[0]), &n); err != nil || n != 6 {
		t.Errorf("first document = %q (%v), want 6", docs[0], err)
	}
}

func TestASTRun(t *testing.T) {
	ctx, out := testSession(t, "default", "")

	if err := (&AST{fmtInput{Exprs: []string{"y = -x + 1"}}}).Run(ctx); err != nil {
		t.Fatalf("AST.Run() error: %v", err)
	}

	want := strings.Join([]string{
		"assign y",
		"  binary +",
		"    unary -",
		"      identifier x",
		"    value int 1",
		"",
	}, "\n")

	if got := out.String(); got != want {
		t.Errorf("AST.Run() output =\n%s\nwant\n%s", got, want)
	}
}
