// Package logging configures the process-wide slog logger. The TUI owns
// the terminal, so diagnostics go to a file named by TREELINE_LOG (or
// the --log flag); without one they go to standard error.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// logEnv names the log destination file.
const logEnv = "TREELINE_LOG"

const logFileMode = 0o600

// Init installs the default slog logger. path overrides the TREELINE_LOG
// environment variable; empty means stderr. The returned closer flushes
// and closes the log file (a no-op for stderr) and must run at exit.
// Call once early in main, before the screen takes over the terminal.
func Init(path string) (closer func() error, err error) {
	if path == "" {
		path = os.Getenv(logEnv)
	}

	var w io.Writer = os.Stderr
	closer = func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path chosen by the user
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closer = f.Close
	}

	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, opts)))
	return closer, nil
}

func parseLevel(s string) slog.Level {
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
