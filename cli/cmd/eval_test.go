package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestEvalRun(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		exprs   []string
		stdin   string
		raw     bool
		want    string
		wantErr error
	}{
		{name: "single", env: "default", exprs: []string{"1 + 2"}, want: "3\n"},
		{name: "shared_environment", env: "default", exprs: []string{"x = 4", "x * x"}, want: "16\n"},
		{name: "last_result", env: "default", exprs: []string{"6 * 7", "_ + 1"}, want: "42\n43\n"},
		{name: "string_repr", env: "default", exprs: []string{`"a" + "b"`}, want: "\"ab\"\n"},
		{name: "string_raw", env: "default", exprs: []string{`"a" + "b"`}, raw: true, want: "ab\n"},
		{name: "stdin", env: "default", stdin: "sq = x:(x * x); sq(9)", want: "81\n"},
		{name: "io_library", env: "full", exprs: []string{`println("hi")`}, want: "hi\n"},
		{name: "syntax_error", env: "default", exprs: []string{"1 +"}, wantErr: ErrEval},
		{name: "unset_variable", env: "default", exprs: []string{"missing"}, wantErr: ErrEval},
		{name: "empty_has_no_library", env: "empty", exprs: []string{"sqrt(4)"}, wantErr: ErrEval},
		{name: "unknown_environment", env: "nope", exprs: []string{"1"}, wantErr: ErrUnknownEnv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testSession(t, tt.env, tt.stdin)

			err := (&Eval{Exprs: tt.exprs, Raw: tt.raw}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Eval.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Eval.Run() error: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Eval.Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalRunSources(t *testing.T) {
	dir := t.TempDir()
	prelude := writeFile(t, dir, "prelude.cx", "cube = x:(x * x * x)")

	ctx, out := testSession(t, "default", "")
	ctx = WithSourceFiles(ctx, []string{prelude})

	if err := (&Eval{Exprs: []string{"cube(3)"}}).Run(ctx); err != nil {
		t.Fatalf("Eval.Run() error: %v", err)
	}

	if got := out.String(); got != "27\n" {
		t.Errorf("Eval.Run() output = %q, want %q", got, "27\n")
	}

	ctx = WithSourceFiles(ctx, []string{filepath.Join(dir, "prelude.cx")})
	out.Reset()

	// Sources alone do not read standard input.
	if err := (&Eval{}).Run(ctx); err != nil {
		t.Fatalf("Eval.Run() error: %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("Eval.Run() output = %q, want none", out.String())
	}
}

func TestEvalRunExit(t *testing.T) {
	var (
		out  bytes.Buffer
		code = -1
	)

	ctx := WithSession(t.Context(), Session{
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &out,
		Exit:   func(c int) { code = c },
		Env:    "full",
	})

	if err := (&Eval{Exprs: []string{"exit(4)"}}).Run(ctx); err != nil {
		t.Fatalf("Eval.Run() error: %v", err)
	}

	if code != 4 {
		t.Errorf("exit code = %d, want 4", code)
	}
}
