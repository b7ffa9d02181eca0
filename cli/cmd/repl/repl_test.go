package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/complexpr/lang"
	"github.com/ardnew/complexpr/lang/lib"
)

func TestSessionEval(t *testing.T) {
	s := newSession(Config{Env: lib.Default()})

	res := s.eval(t.Context(), "add = (x, y):(x + y); add(1, 2)")
	if res.err != nil {
		t.Fatalf("eval: %v", res.err)
	}

	if res.val.Repr() != "3" {
		t.Errorf("eval = %s, want 3", res.val.Repr())
	}

	last, ok := s.lookup("_")
	if !ok || last.Repr() != "3" {
		t.Errorf("_ = %v, %v; want 3", last, ok)
	}

	res = s.eval(t.Context(), "_ * 2")
	if res.err != nil || res.val.Repr() != "6" {
		t.Errorf("eval(_ * 2) = %v, %v; want 6", res.val, res.err)
	}

	if res = s.eval(t.Context(), "undefined_name + 1"); res.err == nil {
		t.Error("eval(undefined_name + 1) succeeded, want error")
	}
}

func TestSessionVars(t *testing.T) {
	s := newSession(Config{Env: lib.Default()})

	if res := s.eval(t.Context(), "radius = 2"); res.err != nil {
		t.Fatalf("eval: %v", res.err)
	}

	vars := s.vars(false)
	if !strings.Contains(vars, "radius") {
		t.Errorf("vars(false) = %q, missing radius", vars)
	}

	if strings.Contains(vars, "sqrt") {
		t.Errorf("vars(false) = %q, lists library binding sqrt", vars)
	}

	if all := s.vars(true); !strings.Contains(all, "sqrt") {
		t.Errorf("vars(true) = %q, missing sqrt", all)
	}
}

func TestSessionIO(t *testing.T) {
	s := newSession(Config{Env: lib.Default()})
	s.installIO(strings.NewReader(""), nil)

	if vars := s.vars(false); vars != "" {
		t.Errorf("vars(false) after installIO = %q, want empty", vars)
	}

	res := s.eval(t.Context(), `println("hello"); 7`)
	if res.err != nil {
		t.Fatalf("eval: %v", res.err)
	}

	if res.out != "hello\n" {
		t.Errorf("captured output = %q, want %q", res.out, "hello\n")
	}

	res = s.eval(t.Context(), "exit(3)")

	exit, ok := isExit(res.err)
	if !ok || exit.Code != 3 {
		t.Fatalf("eval(exit(3)) error = %v, want exit status 3", res.err)
	}
}

func TestSessionReload(t *testing.T) {
	var loaded []string

	env := lang.NewEnv()
	s := newSession(Config{
		Env: env,
		Load: func(_ context.Context, e *lang.Env, path string) error {
			loaded = append(loaded, path)
			e.Set("reloaded", lang.Bool(true))

			return nil
		},
	})

	if err := s.reload(t.Context(), "prelude.cx"); err != nil {
		t.Fatal(err)
	}

	if len(loaded) != 1 || loaded[0] != "prelude.cx" {
		t.Errorf("loaded = %v", loaded)
	}

	if _, ok := s.lookup("reloaded"); !ok {
		t.Error("reload did not update the session environment")
	}
}

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name    string
		res     evalResult
		want    string
		wantErr bool
	}{
		{"value", evalResult{val: lang.Str("hi")}, "\"hi\"\n", false},
		{"void", evalResult{val: lang.Void{}}, "", false},
		{"error", evalResult{err: errors.New("boom")}, "Error: boom", false},
		{"exit", evalResult{err: &ExitError{Code: 2}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := printResult(&buf, tt.res)
			if (err != nil) != tt.wantErr {
				t.Fatalf("printResult() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("printResult() wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	s := newSession(Config{Env: lang.NewEnv()})

	if res := s.eval(t.Context(), "sq = x:(x * x)"); res.err != nil {
		t.Fatalf("eval: %v", res.err)
	}

	sq, _ := s.lookup("sq")
	if got := preview(sq); !strings.HasPrefix(got, "(x) : ") {
		t.Errorf("preview(sq) = %q", got)
	}

	long := lang.Str(strings.Repeat("a", 100))
	if got := preview(long); len([]rune(got)) != 40 || !strings.HasSuffix(got, "...") {
		t.Errorf("preview(long) = %q", got)
	}
}
