package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{WithPretty(false), WithTimeLayout("none")}, opts...)...)
}

// TestMake_Defaults verifies the configuration of a logger made without
// options.
func TestMake_Defaults(t *testing.T) {
	logger := Make(nil)

	if got := logger.Level(); got != DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, DefaultLevel)
	}

	if got := logger.Format(); got != FormatText {
		t.Errorf("Format() = %v, want %v", got, FormatText)
	}

	if logger.caller {
		t.Error("caller enabled by default")
	}

	if !logger.pretty {
		t.Error("pretty disabled by default")
	}
}

// TestLogger_LevelFiltering verifies that records below the configured level
// are dropped.
func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		want  []string
	}{
		{LevelTrace, []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{LevelError, []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer

			logger := plain(&buf, WithLevel(tt.level))
			logger.Trace("m")
			logger.Debug("m")
			logger.Info("m")
			logger.Warn("m")
			logger.Error("m")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d records, want %d:\n%s", len(lines), len(tt.want), buf.String())
			}

			for i, line := range lines {
				if !strings.HasPrefix(line, "level="+tt.want[i]+" ") {
					t.Errorf("record %d = %q, want level %s", i, line, tt.want[i])
				}
			}
		})
	}
}

// TestLogger_JSON verifies that JSON records decode with the expected members.
func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf, WithFormat(FormatJSON), WithLevel(LevelTrace))
	logger.With(slog.String("phase", "eval")).Trace("done", slog.Int("nodes", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}

	want := map[string]any{
		"level": "TRACE",
		"msg":   "done",
		"phase": "eval",
		"nodes": float64(3),
	}

	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}

	if _, ok := rec["time"]; ok {
		t.Error("time present with layout none")
	}
}

// TestLogger_Caller verifies that the source location is the line calling the
// logging method.
func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithCaller(true)).Warn("here")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("source missing from %q", buf.String())
	}
}

// TestLogger_TimeLayout verifies named, custom and disabled layouts.
func TestLogger_TimeLayout(t *testing.T) {
	at := time.Date(2024, 3, 9, 16, 4, 5, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T16:04:05Z"},
		{"rfc-3339", "2024-03-09T16:04:05Z"},
		{"Kitchen", "4:04PM"},
		{"2006/01/02", "2024/03/09"},
		{"none", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(at); got != tt.want {
				t.Errorf("format = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestLogger_Pretty verifies that colorized output carries the message,
// attributes and group prefixes.
func TestLogger_Pretty(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithFormat(format), WithLevel(LevelInfo))
			grouped := Logger{
				Logger: logger.WithGroup("eval"),
				config: logger.config,
			}

			grouped.Info("result", slog.Bool("ok", true), Err(errors.New("bad")))

			out := buf.String()
			for _, want := range []string{"result", "eval.ok", "true", "bad", colorReset} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

// TestLogger_Wrap verifies that Wrap overrides only the given options.
func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError || wrapped.Level() != LevelDebug {
		t.Fatalf("levels = %v, %v", base.Level(), wrapped.Level())
	}

	wrapped.Debug("wrapped")

	if !strings.Contains(buf.String(), "msg=wrapped") {
		t.Errorf("wrapped logger lost output writer: %q", buf.String())
	}
}

// TestLogger_ZeroValue verifies that the zero Logger discards records.
func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	logger.Error("nothing")
	logger.With(slog.Int("a", 1)).Info("nothing")

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("zero logger reports non-default configuration")
	}
}

// TestLogger_Concurrent verifies that one logger can be used from many
// goroutines.
func TestLogger_Concurrent(t *testing.T) {
	var (
		buf syncBuffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf, WithLevel(LevelInfo))

	for range 32 {
		wg.Go(func() { logger.Info("tick", slog.Int("n", 1)) })
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 32 {
		t.Errorf("got %d records, want 32", got)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// TestParseLevel verifies level names, offsets and the fallback.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := (LevelTrace - 1).String(); got != "trace-1" {
		t.Errorf("String() = %q, want trace-1", got)
	}
}

// TestParseFormat verifies format names and the fallback.
func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json":   FormatJSON,
		" TEXT ": FormatText,
		"yaml":   DefaultFormat,
	} {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestPackage_DefaultLogger verifies that the package-level functions write
// through the logger installed by SetDefault and Config.
func TestPackage_DefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer

	SetDefault(plain(&buf))
	Config(WithLevel(LevelDebug), WithFormat(FormatJSON))

	Debug("debug message", slog.String("key", "value"))
	InfoContext(t.Context(), "info message")

	out := buf.String()
	for _, want := range []string{`"msg":"debug message"`, `"key":"value"`, `"msg":"info message"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}
