// Package logging configures the process-wide charmbracelet logger used by
// every other package.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stderr
)

func setOutput(w io.Writer) {
	outputMu.Lock()
	output = w
	outputMu.Unlock()
	log.SetOutput(w)
}

// Setup configures the default logger level and destination.
// An empty file logs to stderr. The returned closer must be closed on exit.
func Setup(level, file string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	log.SetLevel(lvl)
	log.SetReportTimestamp(true)
	log.SetPrefix("merhaba")

	if file == "" {
		setOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	setOutput(f)
	log.Debug("Logging initialized", "level", lvl, "file", file)
	return f, nil
}

// Tee copies everything the default logger writes to w as well.
// The returned function restores the previous output.
func Tee(w io.Writer) (restore func()) {
	outputMu.Lock()
	prev := output
	outputMu.Unlock()

	setOutput(io.MultiWriter(prev, w))
	return func() { setOutput(prev) }
}

// ParseLevel maps a config string to a log level; empty means info
func ParseLevel(level string) (log.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return log.InfoLevel, nil
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// OrDefault returns l, or the default logger when l is nil
func OrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
