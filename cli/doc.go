// Package cli contains the command line interface for complexpr.
//
// # Usage
//
//	complexpr [flags] [eval] EXPR ...
//	complexpr fmt {native|json|yaml|ast} EXPR ...
//	complexpr repl [--plain] [--watch]
//	complexpr init [--force]
//	complexpr version
//
// # Configuration
//
// Flag defaults are read from two files in the configuration directory
// (typically ~/.config/complexpr): config.json, in kong's JSON form, and
// config, a program evaluated in an empty environment whose bindings name
// flags with underscores in place of hyphens:
//
//	env = "default";
//	simplify = true;
//	log_level = "debug"
//
// The init command writes the current flag values in this form.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time: Set timestamp layout (RFC3339, Kitchen, ms, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default
//     ~/.cache/complexpr/pprof)
package cli
