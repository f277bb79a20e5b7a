package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configures a console logger.
type Options struct {
	Level      string
	Format     string
	Timestamps bool
	Caller     bool
	Prefix     string
}

// DefaultPrefix is the prefix shown on every console line.
const DefaultPrefix = "tasks"

// New builds a charmbracelet logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLogLevel(opts.Level),
		Formatter:       ParseLogFormatter(opts.Format),
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    opts.Caller,
		Prefix:          prefix,
	})
}

// NewFile builds a JSON logger for a run log file. Timestamps are always on.
func NewFile(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLogLevel(level),
		Formatter:       log.JSONFormatter,
		ReportTimestamp: true,
		Prefix:          DefaultPrefix,
	})
}

// ParseLogLevel parses a string log level to a charmbracelet/log Level.
func ParseLogLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseLogFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseLogFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
