package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/complexpr/lang"
)

// testSession returns a session over in-memory streams and a context
// carrying it.
func testSession(t *testing.T, env, stdin string) (context.Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	sess := Session{
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &out,
		Exit:   func(code int) { t.Fatalf("unexpected exit(%d)", code) },
		Env:    env,
	}

	return WithSession(t.Context(), sess), &out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatal(err)
	}

	return resolved
}

func TestWithSourceFilesEmpty(t *testing.T) {
	for _, sources := range [][]string{nil, {}} {
		srcs := sourceFilesFrom(WithSourceFiles(t.Context(), sources))
		if srcs != nil {
			t.Errorf("WithSourceFiles(%v) = %+v, want nil", sources, srcs)
		}

		if !srcs.IsZero() || srcs.HasStdin() || srcs.Paths() != nil {
			t.Errorf("nil SourceFiles is not empty")
		}
	}
}

func TestWithSourceFiles(t *testing.T) {
	dir := t.TempDir()

	first := writeFile(t, dir, "first.cx", "a = 1")
	second := writeFile(t, dir, "second.cx", "b = 2")

	link := filepath.Join(dir, "link.cx")
	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(mustGetwd(t), second)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		sources   []string
		wantPaths []string
		wantStdin bool
		wantNil   bool
	}{
		{"single", []string{first}, []string{first}, false, false},
		{"ordered", []string{second, first}, []string{second, first}, false, false},
		{"duplicate", []string{first, first}, []string{first}, false, false},
		{"symlink", []string{first, link}, []string{first}, false, false},
		{"relative_and_absolute", []string{rel, second}, []string{second}, false, false},
		{"stdin_last", []string{stdinSource, first}, []string{first}, true, false},
		{"stdin_collapsed", []string{stdinSource, stdinSource}, nil, true, false},
		{"missing_skipped", []string{filepath.Join(dir, "missing.cx"), first}, []string{first}, false, false},
		{"directory_skipped", []string{dir}, nil, false, true},
		{"all_missing", []string{filepath.Join(dir, "missing.cx")}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs := sourceFilesFrom(WithSourceFiles(t.Context(), tt.sources))

			if tt.wantNil {
				if srcs != nil {
					t.Fatalf("WithSourceFiles(%v) = %+v, want nil", tt.sources, srcs)
				}

				return
			}

			if srcs == nil {
				t.Fatalf("WithSourceFiles(%v) = nil", tt.sources)
			}

			if !slices.Equal(srcs.Paths(), tt.wantPaths) {
				t.Errorf("Paths() = %v, want %v", srcs.Paths(), tt.wantPaths)
			}

			if srcs.HasStdin() != tt.wantStdin {
				t.Errorf("HasStdin() = %v, want %v", srcs.HasStdin(), tt.wantStdin)
			}
		})
	}
}

func mustGetwd(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	return wd
}

func TestSourceFilesLoad(t *testing.T) {
	dir := t.TempDir()

	first := writeFile(t, dir, "first.cx", "scale = 3")
	second := writeFile(t, dir, "second.cx", "triple = x:(x * scale)")

	ctx, _ := testSession(t, "default", "result = triple(5)")
	sess := sessionFrom(ctx)

	env, err := sess.Environment()
	if err != nil {
		t.Fatal(err)
	}

	srcs := &SourceFiles{paths: []string{first, second}, stdin: true}
	if err := srcs.Load(ctx, sess, env); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	got, ok := env.Get("result")
	if !ok || !lang.Equal(got, lang.Integer(15)) {
		t.Errorf("result = %v, want 15", got)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.cx", "1 +")

	ctx, _ := testSession(t, "default", "")
	sess := sessionFrom(ctx)

	env, err := sess.Environment()
	if err != nil {
		t.Fatal(err)
	}

	if err := LoadFile(ctx, sess, env, filepath.Join(dir, "missing.cx")); !errors.Is(err, ErrReadSource) {
		t.Errorf("LoadFile(missing) error = %v, want ErrReadSource", err)
	}

	if err := LoadFile(ctx, sess, env, bad); !errors.Is(err, ErrEvalSource) {
		t.Errorf("LoadFile(bad) error = %v, want ErrEvalSource", err)
	}
}

func TestSessionEnvironment(t *testing.T) {
	tests := []struct {
		env     string
		bound   string
		unbound string
		wantErr error
	}{
		{env: "empty", unbound: "sqrt"},
		{env: "default", bound: "sqrt", unbound: "println"},
		{env: "full", bound: "println"},
		{env: "bogus", wantErr: ErrUnknownEnv},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			env, err := Session{Env: tt.env}.Environment()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Environment() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if tt.bound != "" && !env.Has(tt.bound) {
				t.Errorf("%s environment lacks %q", tt.env, tt.bound)
			}

			if tt.unbound != "" && env.Has(tt.unbound) {
				t.Errorf("%s environment binds %q", tt.env, tt.unbound)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrWriteConfig.Wrap(cause)

	if !errors.Is(err, ErrWriteConfig) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(err, ErrReadSource) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("derived error does not match its cause")
	}

	if got, want := err.Error(), "write configuration file: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
