// Package logging provides structured logging backed by charmbracelet/log.
//
// Init opens a JSON log file under the state directory. NewConsole builds a
// logfmt logger for long-running commands that want their output on a stream.
// Both redact values whose keys look sensitive.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/practice-alerts/internal/colors"
)

const filePrefix = "practice-alerts_"

// Logger is the structured logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a logger that adds the given key-value pairs to every entry.
	With(args ...any) Logger
	// Shutdown closes the underlying file, if any.
	Shutdown() error
}

type logger struct {
	clogger  *clog.Logger
	redactor *redactor
	closer   io.Closer
	path     string
}

// Init opens a JSON file logger for cfg. A disabled config yields Nop().
// Old log files beyond cfg.MaxFiles are removed first.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return Nop(), nil
	}
	logDir, err := LogDir(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("determine log directory: %w", err)
	}
	if err := rotate(logDir, cfg.MaxFiles); err != nil {
		colors.Debug(fmt.Sprintf("log rotation failed: %v", err))
	}

	name := fmt.Sprintf("%s%s_PID%d_%s.log",
		filePrefix,
		time.Now().Format("20060102_150405"),
		cfg.PID,
		strings.ReplaceAll(cfg.Command, " ", "_"))
	path := filepath.Join(logDir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	clogger := clog.NewWithOptions(f, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(cfg.Level),
		Formatter:       clog.JSONFormatter,
	})
	clogger = clogger.With("pid", cfg.PID, "command", cfg.Command)
	return &logger{clogger: clogger, redactor: newRedactor(), closer: f, path: path}, nil
}

// NewConsole returns a logfmt logger writing to w.
func NewConsole(w io.Writer, level string) Logger {
	clogger := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           parseLevel(level),
		Formatter:       clog.LogfmtFormatter,
	})
	return &logger{clogger: clogger, redactor: newRedactor()}
}

// newJSON returns a JSON logger writing to w. Used by tests.
func newJSON(w io.Writer, level string) *logger {
	clogger := clog.NewWithOptions(w, clog.Options{
		Level:     parseLevel(level),
		Formatter: clog.JSONFormatter,
	})
	return &logger{clogger: clogger, redactor: newRedactor()}
}

func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *logger) Debug(msg string, args ...any) {
	l.clogger.Debug(msg, l.redactor.redact(args)...)
}

func (l *logger) Info(msg string, args ...any) {
	l.clogger.Info(msg, l.redactor.redact(args)...)
}

func (l *logger) Warn(msg string, args ...any) {
	l.clogger.Warn(msg, l.redactor.redact(args)...)
}

func (l *logger) Error(msg string, args ...any) {
	l.clogger.Error(msg, l.redactor.redact(args)...)
}

func (l *logger) With(args ...any) Logger {
	return &logger{
		clogger:  l.clogger.With(l.redactor.redact(args)...),
		redactor: l.redactor,
		path:     l.path,
	}
}

func (l *logger) Shutdown() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) With(...any) Logger { return n }
func (nopLogger) Shutdown() error      { return nil }

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// InitGlobal initializes the process logger from the global configuration
// and mirrors console messages into it.
func InitGlobal() error {
	l, err := Init(FromGlobalConfig())
	if err != nil {
		return err
	}
	SetGlobal(l)
	if path := CurrentLogFile(); path != "" {
		colors.Debug("logging to file:", path)
	}
	return nil
}

// SetGlobal replaces the process logger. A nil logger resets it to Nop.
func SetGlobal(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
	if l == nil {
		colors.SetLogger(nil)
		return
	}
	colors.SetLogger(l)
}

// GetGlobal returns the process logger, or Nop if none was set.
func GetGlobal() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return Nop()
	}
	return globalLogger
}

// ShutdownGlobal closes the process logger.
func ShutdownGlobal() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		return nil
	}
	err := globalLogger.Shutdown()
	globalLogger = nil
	colors.SetLogger(nil)
	return err
}

// CurrentLogFile returns the path of the active log file, or "".
func CurrentLogFile() string {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if l, ok := globalLogger.(*logger); ok {
		return l.path
	}
	return ""
}
