// Package logger owns the process-wide zerolog logger.
//
// Call Init once at startup; Get returns a no-op logger until then, which
// keeps package tests quiet without any setup.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	instance = zerolog.Nop()
	once     sync.Once
)

// Init builds the root logger. Development environments get human-friendly
// console output, everything else emits JSON lines. Only the first call has
// any effect; later calls return the logger the first one built.
func Init(level, env string, out io.Writer) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		if out == nil {
			out = os.Stdout
		}
		if env == "development" {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := parseLevel(level)
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Logger()
	})
	return instance
}

// Get returns the root logger.
func Get() zerolog.Logger {
	return instance
}

// Reset tears down the logger so the next Init rebuilds it. Tests only.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Nop()
}

// parseLevel maps a level name to its zerolog.Level, defaulting to info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
