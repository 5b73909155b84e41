// Package observability wires zerolog structured logging and an
// OpenTelemetry tracer provider, the ambient stack shared by every
// other package in this module.
package observability

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes zerolog with sane defaults. Logs always go to
// stderr, never stdout: the CLI writes the synthesized Artifact's JSON to
// stdout as the one machine-readable output a caller might pipe or
// parse, so nothing else may share that stream. If logPath is non-empty,
// logs are additionally teed to that file (append mode); if opening the
// file fails, logging continues on stderr alone and the open error is
// printed there.
func InitLogger(logPath string, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	w := io.Writer(os.Stderr)
	if logPath != "" {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = zerolog.MultiLevelWriter(os.Stderr, f)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "failed to open log file %q: %v\n", logPath, err)
		}
	}
	log.Logger = log.Output(w).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(parseLevel(level))

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
}

// parseLevel normalizes the configured level string ("warning" is
// accepted as an alias for zerolog's "warn") and falls back to info on
// anything zerolog itself doesn't recognize.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	if level == "" {
		return zerolog.InfoLevel
	}
	if l, err := zerolog.ParseLevel(level); err == nil {
		return l
	}
	return zerolog.InfoLevel
}

// Component returns a child logger tagged with a "component" field, so
// log lines from the Supervisor, Context Acquirer, Navigation Loop, and
// Artifact Synthesizer can be told apart in a single combined stream.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
