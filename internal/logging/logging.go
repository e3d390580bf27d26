// Package logging configures the global logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Config is the configuration of the logger.
type Config struct {
	Level string
	File  string // empty logs to stderr
	Color bool   // only honoured for stderr
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// Validate reports whether the level is known to logrus.
func (c Config) Validate() error {
	if c.Level == "" {
		return nil
	}
	if _, err := logrus.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Setup sets logrus globally and returns a function that closes the log
// file, if one was opened.
func Setup(c Config) (func() error, error) {
	level := logrus.InfoLevel
	if c.Level != "" {
		parsed, err := logrus.ParseLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		level = parsed
	}

	var out io.Writer = os.Stderr
	closer := func() error { return nil }
	color := c.Color
	if c.File != "" {
		f, err := openLogFile(c.File)
		if err != nil {
			return nil, err
		}
		out = f
		closer = f.Close
		color = false
	}

	logrus.SetOutput(out)
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   color,
		DisableColors: !color,
	})
	return closer, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
