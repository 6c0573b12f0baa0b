// Package scanlog configures Warden's structured logging: slog, stderr-only,
// env/flag-driven level, with one behavioral twist — warnings are suppressed
// when the active output format is json/sarif, since those formats must
// keep their payload stream clean.
package scanlog

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global slog default logger. format "json" yields
// structured JSON output; anything else yields human-readable text. All
// output goes to os.Stderr.
func Setup(level slog.Level, format string) {
	SetupWithWriter(level, format, os.Stderr)
}

// SetupWithWriter is the writer-injectable variant used by tests.
func SetupWithWriter(level slog.Level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ResolveLevel applies this priority order: DEBUG env var highest, then
// --verbose, then --quiet, then Info.
func ResolveLevel(verbose, quiet bool) slog.Level {
	if os.Getenv("DEBUG") == "1" {
		return slog.LevelDebug
	}
	if verbose {
		return slog.LevelDebug
	}
	if quiet {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New returns a child logger tagged with a "component" attribute.
func New(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

// SuppressWarnings reports whether the given --format value means warnings
// must not reach stdout. Applies to both the "json" and "sarif" report
// formats, since both are machine-readable payloads emitted on stdout by
// default.
func SuppressWarnings(format string) bool {
	switch strings.ToLower(format) {
	case "json", "sarif":
		return true
	default:
		return false
	}
}

// Warn emits a warning via slog, unless suppressed by the active output
// format, in which case it is demoted to Debug so it still reaches
// --verbose diagnostics without polluting stdout in JSON/SARIF mode.
func Warn(format string, msg string, args ...any) {
	if SuppressWarnings(format) {
		slog.Debug(msg, args...)
		return
	}
	slog.Warn(msg, args...)
}
