// Package colors prints styled console messages and mirrors them to the
// structured logger when one is attached.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const checkmark = "✓"

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	mu           sync.RWMutex
	debugEnabled bool
	quiet        bool
	logger       Logger
	stdout       io.Writer = os.Stdout
	stderr       io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv("PRACTICE_ALERTS_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}

// SetQuiet suppresses Info and Success output. Warnings and errors still print.
func SetQuiet(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetOutput redirects console output. A nil writer restores the default.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelSuccess
	levelWarn
	levelError
)

func emit(lv level, msgs []string) {
	mu.RLock()
	l, dbg, q, out, errOut := logger, debugEnabled, quiet, stdout, stderr
	mu.RUnlock()

	if lv == levelDebug && !dbg {
		return
	}
	msg := strings.Join(msgs, " ")

	if l != nil {
		switch lv {
		case levelDebug:
			l.Debug(msg)
		case levelInfo:
			l.Info(msg)
		case levelSuccess:
			l.Info(msg, "type", "success")
		case levelWarn:
			l.Warn(msg)
		case levelError:
			l.Error(msg)
		}
	}

	var (
		w    io.Writer
		line string
	)
	switch lv {
	case levelDebug:
		w, line = errOut, debugStyle.Render("Debug:")+" "+msg
	case levelInfo:
		if q {
			return
		}
		w, line = out, infoStyle.Render(msg)
	case levelSuccess:
		if q {
			return
		}
		w, line = out, successStyle.Render(checkmark)+" "+msg
	case levelWarn:
		w, line = errOut, warningStyle.Render("Warning:")+" "+msg
	case levelError:
		w, line = errOut, errorStyle.Render("Error:")+" "+msg
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		// Last resort; the styled writer is gone.
		fmt.Fprintf(os.Stderr, "failed to print message: %v: %s\n", err, msg)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) { emit(levelError, msgs) }

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) { emit(levelWarn, msgs) }

// Success outputs a success message to stdout.
func Success(msgs ...string) { emit(levelSuccess, msgs) }

// Info outputs an informational message to stdout.
func Info(msgs ...string) { emit(levelInfo, msgs) }

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) { emit(levelDebug, msgs) }
