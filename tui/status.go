package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	stdoutRenderer = lipgloss.NewRenderer(os.Stdout)
	stderrRenderer = lipgloss.NewRenderer(os.Stderr)

	statusStyle = stdoutRenderer.NewStyle().Bold(true).Foreground(ColorCyan)
	errorStyle  = stderrRenderer.NewStyle().Bold(true).Foreground(ColorOrange)
	debugStyle  = stderrRenderer.NewStyle().Bold(true).Foreground(ColorPurple)
)

// Level selects which messages a Logger prints.
type Level int

const (
	LevelInfo Level = iota
	LevelDebug
)

func (l Level) String() string {
	if l == LevelDebug {
		return "debug"
	}
	return "info"
}

// LevelFor returns LevelDebug when verbose is set.
func LevelFor(verbose bool) Level {
	if verbose {
		return LevelDebug
	}
	return LevelInfo
}

// Logger prints status lines. It is created once per invocation and passed
// to whatever needs to report progress.
type Logger struct {
	level  Level
	stdout io.Writer
	stderr io.Writer

	statusStyle lipgloss.Style
	errorStyle  lipgloss.Style
	debugStyle  lipgloss.Style
}

func NewLogger(level Level) *Logger {
	return &Logger{
		level:       level,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		statusStyle: statusStyle,
		errorStyle:  errorStyle,
		debugStyle:  debugStyle,
	}
}

// NewPlainLogger returns an unstyled logger that writes to the given writers.
func NewPlainLogger(level Level, stdout, stderr io.Writer) *Logger {
	plain := lipgloss.NewStyle()
	return &Logger{
		level:       level,
		stdout:      stdout,
		stderr:      stderr,
		statusStyle: plain,
		errorStyle:  plain,
		debugStyle:  plain,
	}
}

func (l *Logger) Level() Level { return l.level }

// Status prints a right-aligned bold cyan verb followed by a message to stdout.
func (l *Logger) Status(verb string, format string, args ...any) {
	writeStatus(l.stdout, verb, l.statusStyle, format, args...)
}

// Error prints a right-aligned bold orange "error" followed by a message to stderr.
func (l *Logger) Error(format string, args ...any) {
	writeStatus(l.stderr, "error", l.errorStyle, format, args...)
}

// Debug prints to stderr when the logger is at debug level.
func (l *Logger) Debug(format string, args ...any) {
	if l.level < LevelDebug {
		return
	}
	writeStatus(l.stderr, "debug", l.debugStyle, format, args...)
}

// Writer returns the stdout writer for child process output.
func (l *Logger) Writer() io.Writer { return l.stdout }

// ErrWriter returns the stderr writer for child process output.
func (l *Logger) ErrWriter() io.Writer { return l.stderr }

func writeStatus(w io.Writer, verb string, style lipgloss.Style, format string, args ...any) {
	padded := fmt.Sprintf("%12s", verb)
	styled := style.Render(padded)
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(w, "%s %s\n", styled, msg)
}

// Error prints an error line to stderr. It is meant for main, before or
// after a Logger exists.
func Error(format string, args ...any) {
	writeStatus(os.Stderr, "error", errorStyle, format, args...)
}
