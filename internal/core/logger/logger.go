// Package logger provides the structured logging engine for orion-utils.
// Uses log/slog writing to stderr and, when configured, a log file. Build
// invocations are additionally journaled to an append-only JSON file so test
// runs can be reconstructed after the fact.
package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	v1 "github.com/peaqe/orion-utils/api/v1"
)

// Logger wraps slog.Logger with orion-specific utilities.
type Logger struct {
	*slog.Logger

	mu       sync.Mutex
	journalW io.Writer // append-only build journal (nil = disabled)
}

// Init initialises the global logger. level is one of debug|info|warn|error;
// format is text|json. logFile and orionHome may be empty to disable the
// corresponding sink.
func Init(level, format, logFile, orionHome string, debug bool) (*Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if debug {
		lvl = slog.LevelDebug
	}

	// Build multi-writer: always write to stderr, optionally to file
	writers := []io.Writer{os.Stderr}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0750); err == nil {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
			if err == nil {
				writers = append(writers, f)
			}
		}
	}

	out := io.MultiWriter(writers...)

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: lvl, AddSource: debug}
	if format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	base := slog.New(handler)
	slog.SetDefault(base)

	// Build journal
	var journalW io.Writer
	if orionHome != "" {
		journalPath := filepath.Join(orionHome, "journal.log")
		if jf, err := os.OpenFile(journalPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640); err == nil {
			journalW = jf
		}
	}

	return &Logger{Logger: base, journalW: journalW}, nil
}

// Journal writes an append-only build journal entry and mirrors it to the
// structured log.
func (l *Logger) Journal(rec v1.BuildRecord) {
	l.Info("build",
		"id", rec.ID,
		"template", rec.Template,
		"artifact", rec.Artifact,
		"runner", rec.Runner,
		"duration", rec.Duration,
		"result", rec.Result,
	)
	if l.journalW == nil {
		return
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.journalW.Write(append(line, '\n'))
}

// Nop returns a logger that discards everything. Used by tests and library
// callers that do not care about log output.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
