// Package logging sets up the process logger. Records are written with
// log/slog, and error records are also reported to Sentry when a DSN is
// configured.
//
// The dashboard owns the terminal, so records go to a file (or are
// discarded) rather than to stderr.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds logging configuration.
type Config struct {
	Level     slog.Level
	SentryDSN string
	Env       string
	Version   string
	LogFile   string    // empty with a nil Output discards records
	Output    io.Writer // used instead of LogFile when set
}

var (
	mu        sync.Mutex
	logger    = slog.New(slog.NewTextHandler(io.Discard, nil))
	reporting bool
	logFile   *os.File
)

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level.
// Anything else is info.
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

// Init replaces the process logger.
func Init(cfg Config) error {
	report := cfg.SentryDSN != ""
	if report {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
			Release:     cfg.Version,
		})
		if err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
	}

	out := cfg.Output
	var f *os.File
	if out == nil {
		out = io.Discard
		if cfg.LogFile != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
			var err error
			f, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			out = f
		}
	}

	var h slog.Handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level})
	if report {
		h = reportHandler{h}
	}

	mu.Lock()
	closeFile()
	logger, reporting, logFile = slog.New(h), report, f
	mu.Unlock()
	return nil
}

// Flush waits for pending Sentry reports and closes the log file.
func Flush(timeout time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if reporting {
		sentry.Flush(timeout)
	}
	closeFile()
}

func closeFile() {
	if logFile != nil {
		_ = logFile.Sync()
		_ = logFile.Close()
		logFile = nil
	}
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// reportHandler forwards error records to Sentry after writing them.
type reportHandler struct {
	slog.Handler
}

func (h reportHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.Handler.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level < slog.LevelError {
		return nil
	}

	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	event.Message = r.Message
	event.Timestamp = r.Time
	r.Attrs(func(a slog.Attr) bool {
		event.Extra[a.Key] = a.Value.String()
		return true
	})
	sentry.CaptureEvent(event)
	return nil
}

func (h reportHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return reportHandler{h.Handler.WithAttrs(attrs)}
}

func (h reportHandler) WithGroup(name string) slog.Handler {
	return reportHandler{h.Handler.WithGroup(name)}
}

func Debug(msg string, args ...any) { current().Debug(msg, args...) }
func Info(msg string, args ...any)  { current().Info(msg, args...) }
func Warn(msg string, args ...any)  { current().Warn(msg, args...) }

// Error logs at error level. The record is reported to Sentry when enabled.
func Error(msg string, args ...any) { current().Error(msg, args...) }

// CapturePanic logs a recovered panic value, which also reports it to
// Sentry, and waits for the report to be sent. It returns the value so the
// caller can re-panic.
func CapturePanic(v any, args ...any) any {
	if v == nil {
		return nil
	}
	current().Error(fmt.Sprintf("panic: %v", v), append([]any{"type", "panic"}, args...)...)

	mu.Lock()
	report := reporting
	mu.Unlock()
	if report {
		sentry.Flush(2 * time.Second)
	}
	return v
}
