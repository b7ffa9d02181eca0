// Package log is the structured logger of complexpr, a thin layer over
// [log/slog] with an extra [LevelTrace] below debug and a colorized terminal
// handler.
//
// Loggers are values configured with functional options at construction:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
//	logger.Debug("compiled", slog.Int("nodes", 12))
//
// The interpreter logs compile and evaluation events at trace level, so a
// logger passed with lang.WithLogger stays silent unless its level is lowered.
//
// The package-level functions ([Info], [Error], ...) write through the
// default logger, which writes text to standard error at [DefaultLevel].
// [Config] reconfigures it, typically once while parsing command-line flags.
//
// Methods without a context argument use [DefaultContextProvider].
package log
