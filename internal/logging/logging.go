package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// secretKeys are attribute keys whose values are never written to logs.
var secretKeys = map[string]bool{
	"api_key":       true,
	"key":           true,
	"authorization": true,
	"token":         true,
}

// Init creates and sets the package-level default slog logger on stderr.
// When reportsOnStdout is true it logs JSON so the two streams can be told
// apart by machines; otherwise it uses the text handler for people.
func Init(reportsOnStdout bool, level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, reportsOnStdout, level)))
}

// NewHandler builds the handler Init installs, writing to w.
func NewHandler(w io.Writer, json bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redact}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] && a.Value.String() != "" {
		return slog.String(a.Key, "[redacted]")
	}
	return a
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
