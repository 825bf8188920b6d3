package logger

import (
	"log/slog"
	"os"
)

// Init configures the default slog logger. Level is bumped to debug when
// the DEBUG env var is set to "true".
func Init() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	l := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	return l
}

// With returns a logger tagged with a component name, so every pipeline
// stage logs under a stable key.
func With(l *slog.Logger, component string) *slog.Logger {
	return l.With(slog.String("component", component))
}
