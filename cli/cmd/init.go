package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/complexpr/lang"
	"github.com/ardnew/complexpr/log"
	"github.com/ardnew/complexpr/profile"
)

// Init writes a configuration file holding the current flag values.
//
// The file is a program: one assignment per flag, with hyphens in flag names
// replaced by underscores.
//
//	log_level = "debug";
//	log_pretty = false;
//	source = ("prelude.cx",);
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config namespace undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}
	defer file.Close()

	if err := writeConfig(file, ktx); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// writeConfig writes an assignment for each visible flag that has a value.
func writeConfig(w io.Writer, ktx *kong.Context) error {
	ignore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		v, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		name := strings.ReplaceAll(flag.Name, "-", "_")

		if _, err := fmt.Fprintf(w, "%s = %s;\n", name, v.Repr()); err != nil {
			return err
		}
	}

	return nil
}

// flagValue converts a parsed flag value to a language value. Empty strings,
// empty slices and nil report false.
func flagValue(val any) (lang.Value, bool) {
	if val == nil {
		return nil, false
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Bool:
		return lang.Bool(rv.Bool()), true

	case reflect.String:
		if rv.Len() == 0 {
			return nil, false
		}

		return lang.Str(rv.String()), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lang.Integer(rv.Int()), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lang.Integer(int64(rv.Uint())), true //nolint:gosec

	case reflect.Float32, reflect.Float64:
		return lang.Float(rv.Float()), true

	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil, false
		}

		list := make(lang.List, 0, rv.Len())

		for idx := range rv.Len() {
			if v, ok := flagValue(rv.Index(idx).Interface()); ok {
				list = append(list, v)
			}
		}

		return list, true

	default:
		return lang.Str(fmt.Sprint(val)), true
	}
}
