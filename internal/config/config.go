package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/sqmon/internal/logging"
)

// Config captures the settings sqmon reads at startup.
type Config struct {
	Squeue       string
	Interval     int // seconds
	AutoRefresh  bool
	FilterToSelf bool
	QueryTimeout time.Duration
	QueryRetries int
	LogFile      string
	LogLevel     string
}

const (
	defaultConfigPath   = "~/.config/sqmon/config.toml"
	defaultLogFile      = "~/.local/state/sqmon/sqmon.log"
	defaultSqueue       = "squeue"
	defaultInterval     = 1
	defaultQueryTimeout = 10 * time.Second
	defaultQueryRetries = 2

	minInterval = 1
	maxInterval = 9999
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Squeue:       defaultSqueue,
		Interval:     defaultInterval,
		QueryTimeout: defaultQueryTimeout,
		QueryRetries: defaultQueryRetries,
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     logging.DefaultConfig().Level,
	}
}

// Load locates and parses the sqmon config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Squeue       string `toml:"squeue"`
		Interval     *int   `toml:"interval"`
		AutoRefresh  bool   `toml:"auto_refresh"`
		FilterToSelf bool   `toml:"filter_to_self"`
		QueryTimeout *int   `toml:"query_timeout"`
		QueryRetries *int   `toml:"query_retries"`
		LogFile      string `toml:"log_file"`
		LogLevel     string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if s := strings.TrimSpace(raw.Squeue); s != "" {
		cfg.Squeue = mustExpand(s)
	}
	if raw.Interval != nil {
		cfg.Interval = *raw.Interval
	}
	cfg.AutoRefresh = raw.AutoRefresh
	cfg.FilterToSelf = raw.FilterToSelf
	if raw.QueryTimeout != nil && *raw.QueryTimeout > 0 {
		cfg.QueryTimeout = time.Duration(*raw.QueryTimeout) * time.Second
	}
	if raw.QueryRetries != nil && *raw.QueryRetries >= 0 {
		cfg.QueryRetries = *raw.QueryRetries
	}
	if f := strings.TrimSpace(raw.LogFile); f != "" {
		cfg.LogFile = mustExpand(f)
	}
	if l := strings.TrimSpace(raw.LogLevel); l != "" {
		cfg.LogLevel = strings.ToLower(l)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", resolved, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Interval < minInterval || c.Interval > maxInterval {
		return fmt.Errorf("interval %d out of range %d..%d", c.Interval, minInterval, maxInterval)
	}
	if err := (logging.Config{Level: c.LogLevel}).Validate(); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// expandPath expands a leading ~ and makes path absolute. Bare command
// names such as "squeue" are returned unchanged so PATH lookup still works.
func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	if !strings.ContainsRune(trimmed, filepath.Separator) {
		return trimmed, nil
	}
	return filepath.Abs(trimmed)
}
