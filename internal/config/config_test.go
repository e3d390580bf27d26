package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Squeue != defaultSqueue {
		t.Fatalf("Squeue = %q, want %q", cfg.Squeue, defaultSqueue)
	}
	if cfg.Interval != 1 || cfg.AutoRefresh || cfg.FilterToSelf {
		t.Fatalf("scheduler settings = (%d, %v, %v), want (1, false, false)", cfg.Interval, cfg.AutoRefresh, cfg.FilterToSelf)
	}
	if cfg.QueryTimeout != 10*time.Second || cfg.QueryRetries != 2 {
		t.Fatalf("query settings = (%v, %d), want (10s, 2)", cfg.QueryTimeout, cfg.QueryRetries)
	}
	wantLog := filepath.Join(home, ".local", "state", "sqmon", "sqmon.log")
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
squeue = "  /opt/slurm/bin/squeue  "
interval = 30
auto_refresh = true
filter_to_self = true
query_timeout = 4
query_retries = 0
log_file = "  ~/logs/sqmon.log "
log_level = "DEBUG"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Squeue != "/opt/slurm/bin/squeue" {
		t.Fatalf("Squeue = %q, want /opt/slurm/bin/squeue", cfg.Squeue)
	}
	if cfg.Interval != 30 || !cfg.AutoRefresh || !cfg.FilterToSelf {
		t.Fatalf("scheduler settings = (%d, %v, %v), want (30, true, true)", cfg.Interval, cfg.AutoRefresh, cfg.FilterToSelf)
	}
	if cfg.QueryTimeout != 4*time.Second {
		t.Fatalf("QueryTimeout = %v, want 4s", cfg.QueryTimeout)
	}
	if cfg.QueryRetries != 0 {
		t.Fatalf("QueryRetries = %d, want 0", cfg.QueryRetries)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "sqmon.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
squeue = "   "
log_file = ""
log_level = ""
query_timeout = 0
query_retries = -1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Fatalf("Load = %#v, want defaults %#v", cfg, def)
	}
}

func TestLoad_IntervalBounds(t *testing.T) {
	tests := []struct {
		interval string
		wantErr  bool
	}{
		{"0", true},
		{"10000", true},
		{"-5", true},
		{"1", false},
		{"9999", false},
	}
	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			_, err := Load(writeConfig(t, "interval = "+tt.interval+"\n"))
			if tt.wantErr && err == nil {
				t.Fatalf("Load(interval=%s) returned nil error", tt.interval)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Load(interval=%s) returned error: %v", tt.interval, err)
			}
		})
	}
}

func TestLoad_InvalidLogLevelFails(t *testing.T) {
	_, err := Load(writeConfig(t, `log_level = "chatty"`))
	if err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("Load error = %v, want log_level error", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `squeue = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_BareCommandUnchanged(t *testing.T) {
	got, err := expandPath(" squeue ")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != "squeue" {
		t.Fatalf("expandPath = %q, want squeue", got)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestValidate_FlagOverrides(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate(warn) = %v, want nil", err)
	}
	cfg.LogLevel = "chatty"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("Validate(chatty) = %v, want log_level error", err)
	}
	cfg.LogLevel = "info"
	cfg.Interval = 10000
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted interval 10000")
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath(); got != "~/.config/sqmon/config.toml" {
		t.Fatalf("DefaultPath() = %q", got)
	}
}
