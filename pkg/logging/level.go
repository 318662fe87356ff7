// Package logging configures structured logging for the flexsdr daemon and
// keeps an in-memory buffer of recent dataplane events.
package logging

import (
	"log/slog"
	"os"
	"strconv"
)

// EnvLogLevel is the environment variable holding the numeric runtime log
// verbosity. Higher values are more verbose: 0 errors only, 1 warnings,
// 2 info (default), 3 and up debug.
const EnvLogLevel = "RUNTIME_LOG_LEVEL"

// LevelFromEnv resolves the slog level from RUNTIME_LOG_LEVEL. An unset or
// malformed value yields slog.LevelInfo.
func LevelFromEnv() slog.Level {
	v := os.Getenv(EnvLogLevel)
	if v == "" {
		return slog.LevelInfo
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return slog.LevelInfo
	}
	return NumericLevel(n)
}

// NumericLevel maps a numeric verbosity to an slog level.
func NumericLevel(n int) slog.Level {
	switch {
	case n <= 0:
		return slog.LevelError
	case n == 1:
		return slog.LevelWarn
	case n == 2:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Setup installs a text handler on stderr as the default logger.
func Setup(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
