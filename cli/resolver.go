package cli

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/complexpr/lang"
	"github.com/ardnew/complexpr/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written as programs. The program is evaluated in an empty environment and
// each binding whose name matches a flag supplies that flag's value:
//
//	log_level = "debug";
//	log_pretty = false;
//	source = ("prelude.cx", "units.cx");
//	simplify = true
//
// Flag names with hyphens match bindings with underscores. Command-line flags
// override configuration values. A file that fails to evaluate is logged and
// ignored, as is each binding whose value cannot feed its flag: functions,
// lists for single-valued flags, and booleans for non-boolean flags.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		env := lang.NewEnv()

		if _, err := lang.Eval(ctx, string(data), env); err != nil {
			log.WarnContext(ctx, "ignore configuration file", log.Err(err))

			return config{}, nil
		}

		cfg := make(config, env.Len())

		for name, val := range env.All() {
			in, ok := flagInput(val)
			if !ok {
				log.WarnContext(ctx, "ignore configuration binding",
					slog.String("name", name),
					slog.String("type", val.Type().String()))

				continue
			}

			cfg[name] = in
		}

		log.TraceContext(ctx, "configuration loaded", slog.Int("bindings", len(cfg)))

		return cfg, nil
	}
}

// config implements [kong.Resolver] over the bindings of a configuration
// program.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		v, ok := c[name]
		if !ok {
			continue
		}

		if !fits(v, flag) {
			log.Warn("ignore configuration binding",
				slog.String("name", name),
				slog.String("flag", flag.Name))

			return nil, nil //nolint:nilnil
		}

		return v, nil
	}

	return nil, nil //nolint:nilnil
}

// fits reports whether v has a shape flag can decode. A flag without a bound
// target accepts anything.
func fits(v any, flag *kong.Flag) bool {
	if flag.Value == nil || !flag.Target.IsValid() {
		return true
	}

	kind := flag.Target.Kind()

	switch v.(type) {
	case []any:
		return kind == reflect.Slice || kind == reflect.Map
	case bool:
		return kind == reflect.Bool
	default:
		return true
	}
}

// flagInput converts a value to the form kong decodes flags from. Numbers
// are given as strings, in the syntax the flag would be typed in. It reports
// false for values no flag can take.
func flagInput(v lang.Value) (any, bool) {
	switch v := v.(type) {
	case lang.Integer:
		return strconv.FormatInt(int64(v), 10), true
	case lang.Float:
		return strconv.FormatFloat(float64(v), 'f', -1, 64), true
	case lang.Bool:
		return bool(v), true
	case lang.Str:
		return string(v), true
	case lang.List:
		out := make([]any, len(v))
		for i, e := range v {
			in, ok := flagInput(e)
			if !ok {
				return nil, false
			}

			out[i] = in
		}

		return out, true
	case *lang.Function, *lang.Lambda, lang.Void:
		return nil, false
	default:
		return v.String(), true
	}
}
