package log_test

import (
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/complexpr/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelDebug),
		log.WithTimeLayout("none"),
		log.WithPretty(false),
	)

	logger.Trace("hidden")
	logger.Debug("parsed", slog.Int("tokens", 7))
	logger.With(slog.String("src", "1 + 2")).Info("evaluated")
	logger.Error("failed", log.Err(errors.New("Division by zero")))

	// Output:
	// level=DEBUG msg=parsed tokens=7
	// level=INFO msg=evaluated src="1 + 2"
	// level=ERROR msg=failed error="Division by zero"
}

func ExampleLevels() {
	for name := range log.Levels() {
		os.Stdout.WriteString(name + " ")
	}

	// Output:
	// trace debug info warn error
}
