package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs a text handler writing to stderr as the default
// logger, at debug level when verbose.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
