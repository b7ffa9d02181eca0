package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// layout arranges the colorized fields of one record.
type layout interface {
	begin(buf *bytes.Buffer)
	field(buf *bytes.Buffer, n int, key, color, value string)
	end(buf *bytes.Buffer)
	quote(kind slog.Kind, s string) string
}

// textLayout writes key=value pairs on a single line.
type textLayout struct{}

func (textLayout) begin(*bytes.Buffer) {}

func (textLayout) field(buf *bytes.Buffer, n int, key, color, value string) {
	if n > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray + key + colorReset + "=")
	buf.WriteString(color + value + colorReset)
}

func (textLayout) end(*bytes.Buffer) {}

func (textLayout) quote(_ slog.Kind, s string) string { return s }

// jsonLayout writes an indented object with one member per line.
type jsonLayout struct{}

func (jsonLayout) begin(buf *bytes.Buffer) { buf.WriteString("{\n") }

func (jsonLayout) field(buf *bytes.Buffer, n int, key, color, value string) {
	if n > 0 {
		buf.WriteString(",\n")
	}

	buf.WriteString("  " + colorGray + strconv.Quote(key) + colorReset + ": ")
	buf.WriteString(color + value + colorReset)
}

func (jsonLayout) end(buf *bytes.Buffer) { buf.WriteString("\n}") }

func (jsonLayout) quote(kind slog.Kind, s string) string {
	switch kind {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindBool:
		return s
	default:
		return strconv.Quote(s)
	}
}

// prettyHandler is a colorizing [slog.Handler] for terminals.
type prettyHandler struct {
	opts   slog.HandlerOptions
	layout layout
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	l layout,
) *prettyHandler {
	return &prettyHandler{opts: *opts, layout: l, mu: &sync.Mutex{}, w: w}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var (
		buf bytes.Buffer
		n   int
	)

	emit := func(key, color, value string) {
		h.layout.field(&buf, n, key, color, value)
		n++
	}

	h.layout.begin(&buf)

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			emit(a.Key, colorBlue, h.layout.quote(slog.KindString, a.Value.String()))
		}
	}

	if a := h.replace(slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		emit(a.Key, levelColor(r.Level), h.layout.quote(slog.KindString, a.Value.String()))
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			loc := fmt.Sprintf("%s:%d", src.File, src.Line)
			emit(slog.SourceKey, colorGray, h.layout.quote(slog.KindString, loc))
		}
	}

	emit(slog.MessageKey, colorReset, h.layout.quote(slog.KindString, r.Message))

	var walk func(key string, v slog.Value)

	walk = func(key string, v slog.Value) {
		v = v.Resolve()
		if v.Kind() == slog.KindGroup {
			for _, a := range v.Group() {
				walk(key+"."+a.Key, a.Value)
			}

			return
		}

		color, s := paint(v)
		emit(key, color, h.layout.quote(v.Kind(), s))
	}

	for _, a := range h.attrs {
		walk(a.Key, a.Value)
	}

	r.Attrs(func(a slog.Attr) bool {
		walk(h.prefix+a.Key, a.Value)

		return true
	})

	h.layout.end(&buf)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}

// paint returns the color and text of an attribute value.
func paint(v slog.Value) (string, string) {
	switch v.Kind() {
	case slog.KindInt64:
		return colorYellow, strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return colorYellow, strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		if v.Bool() {
			return colorGreen, "true"
		}

		return colorRed, "false"
	case slog.KindDuration:
		return colorMagenta, v.Duration().String()
	case slog.KindTime:
		return colorBlue, v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return colorRed, err.Error()
		}

		return colorCyan, v.String()
	default:
		return colorCyan, v.String()
	}
}
