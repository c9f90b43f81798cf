// Package logging builds the structured loggers shared by the hosts and the
// simulation core.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tomz197/coincatch/internal/config"
)

// New returns a logger writing to stderr, tagged with prefix, at the level
// named by LOG_LEVEL (info when unset or unknown).
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(ParseLevel(config.GetEnv("LOG_LEVEL", "info")))
	return logger
}

// Discard returns a logger that drops everything. Used by tests and by the
// local terminal game when no log file is configured.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
