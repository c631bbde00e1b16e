// Package logging builds the hclog loggers used by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// FileName is the append-only log kept in the logs folder.
const FileName = "app.log"

// EnvLevel overrides the configured level. A "json:" prefix (json:debug)
// switches to JSON output.
const EnvLevel = "INTEGRADOR_LOG_LEVEL"

// ResolveLevel picks the level from the flag, the environment, the config
// file and finally "info", in that order.
func ResolveLevel(flag, configured string) string {
	switch {
	case flag != "":
		return flag
	case os.Getenv(EnvLevel) != "":
		return os.Getenv(EnvLevel)
	case configured != "":
		return configured
	}
	return "info"
}

// NewLogger returns a logger named name writing to output.
func NewLogger(name, level string, output io.Writer) hclog.Logger {
	jsonFormat := false
	if strings.HasPrefix(level, "json") {
		jsonFormat = true
		_, l, ok := strings.Cut(level, ":")
		if !ok || l == "" {
			l = "info"
		}
		level = l
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Sink is a logger backed by the log file.
type Sink struct {
	hclog.Logger
	file *os.File
}

// Close closes the log file.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// Open appends to logsDir/app.log, creating it when needed. When console is
// true records are copied to stderr too; the TUI never asks for that since
// it owns the terminal.
func Open(logsDir, level string, console bool) (*Sink, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", logsDir, err)
	}
	path := filepath.Join(logsDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}

	var out io.Writer = f
	if console {
		out = io.MultiWriter(f, os.Stderr)
	}
	return &Sink{Logger: NewLogger("integrador", level, out), file: f}, nil
}
