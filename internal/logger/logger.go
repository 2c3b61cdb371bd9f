// Package logger adapts charmbracelet/log to the driven.Logger port.
// The CLI builds one Logger at start-up and hands it to every component;
// --verbose lowers the level to debug.
package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// Ensure Logger implements the interface.
var _ driven.Logger = (*Logger)(nil)

// Output formats accepted by Options.Format.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// TimeFormat is the timestamp layout of text output (e.g. "14:32:01.45").
const TimeFormat = "15:04:05.00"

// Options configures a Logger.
type Options struct {
	// Verbose enables debug messages.
	Verbose bool

	// Format is one of FormatText, FormatJSON or FormatLogfmt.
	// Defaults to FormatText.
	Format string

	// Prefix is prepended to every message.
	Prefix string
}

// Logger is a leveled, structured logger backed by charmbracelet/log.
type Logger struct {
	l *log.Logger
}

// New creates a Logger writing to w.
func New(w io.Writer, opts Options) (*Logger, error) {
	formatter, err := parseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Level:           level,
		Prefix:          opts.Prefix,
		Formatter:       formatter,
	})
	l.SetStyles(levelStyles())

	return &Logger{l: l}, nil
}

// Discard returns a Logger that drops every message.
func Discard() *Logger {
	return &Logger{l: log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})}
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.l.Debug(msg, keyvals...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.l.Info(msg, keyvals...)
}

// Warn logs a recoverable problem.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.l.Warn(msg, keyvals...)
}

// Error logs a failure that needs operator attention.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.l.Error(msg, keyvals...)
}

// With returns a child logger that adds keyvals to every message.
func (l *Logger) With(keyvals ...any) driven.Logger {
	return &Logger{l: l.l.With(keyvals...)}
}

// parseFormat maps a format name to a charmbracelet formatter.
func parseFormat(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return log.TextFormatter, nil
	case FormatJSON:
		return log.JSONFormatter, nil
	case FormatLogfmt:
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("unknown log format %q (want text, json or logfmt)", format)
	}
}

// levelStyles renders warnings and errors as badges so they stand out in
// scheduler output.
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("214")).
		Foreground(lipgloss.Color("0"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("204")).
		Foreground(lipgloss.Color("0"))
	return styles
}
