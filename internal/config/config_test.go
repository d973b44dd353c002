package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolateConfigDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
}

func TestLoadDefaults(t *testing.T) {
	isolateConfigDir(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend.Host != "127.0.0.1" || cfg.Backend.Port != 4001 {
		t.Fatalf("unexpected endpoint %s:%d", cfg.Backend.Host, cfg.Backend.Port)
	}
	if cfg.Readiness.Interval != 100*time.Millisecond || cfg.Readiness.MaxAttempts != 100 {
		t.Fatalf("unexpected readiness config %+v", cfg.Readiness)
	}
	if cfg.RunMode != RunModePackaged || cfg.LaunchMode != LaunchModeRich {
		t.Fatalf("unexpected modes %q/%q", cfg.RunMode, cfg.LaunchMode)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	isolateConfigDir(t)

	path := filepath.Join(t.TempDir(), "deskhost.yaml")
	body := strings.Join([]string{
		"run_mode: development",
		"launch_mode: simple",
		"backend:",
		"  port: 5055",
		"readiness:",
		"  interval: 250ms",
		"  max_attempts: 7",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RunMode != RunModeDevelopment || cfg.LaunchMode != LaunchModeSimple {
		t.Fatalf("modes not applied: %+v", cfg)
	}
	if cfg.Backend.Port != 5055 {
		t.Fatalf("expected port 5055, got %d", cfg.Backend.Port)
	}
	if cfg.Backend.Host != "127.0.0.1" {
		t.Fatalf("host default lost: %q", cfg.Backend.Host)
	}
	if cfg.Readiness.Interval != 250*time.Millisecond || cfg.Readiness.MaxAttempts != 7 {
		t.Fatalf("unexpected readiness %+v", cfg.Readiness)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolateConfigDir(t)

	path := filepath.Join(t.TempDir(), "deskhost.yaml")
	if err := os.WriteFile(path, []byte("backend:\n  port: 5055\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DESKHOST_BACKEND_PORT", "6066")
	t.Setenv("DESKHOST_PROBE_TIMEOUT", "1s")
	t.Setenv("DESKHOST_RUN_MODE", "Development")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend.Port != 6066 {
		t.Fatalf("expected env port 6066, got %d", cfg.Backend.Port)
	}
	if cfg.Probe.Timeout != time.Second {
		t.Fatalf("expected probe timeout 1s, got %v", cfg.Probe.Timeout)
	}
	if cfg.RunMode != RunModeDevelopment {
		t.Fatalf("expected normalized run mode, got %q", cfg.RunMode)
	}
}

func TestLoadUsesDefaultPathWhenPresent(t *testing.T) {
	isolateConfigDir(t)

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("app_id: org.example.ledger\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AppID != "org.example.ledger" {
		t.Fatalf("expected app id from default path, got %q", cfg.AppID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	isolateConfigDir(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "bad run mode", mutate: func(c *Config) { c.RunMode = "debug" }, want: "run_mode"},
		{name: "bad launch mode", mutate: func(c *Config) { c.LaunchMode = "fancy" }, want: "launch_mode"},
		{name: "port zero", mutate: func(c *Config) { c.Backend.Port = 0 }, want: "backend.port"},
		{name: "empty host", mutate: func(c *Config) { c.Backend.Host = "" }, want: "backend.host"},
		{name: "zero interval", mutate: func(c *Config) { c.Readiness.Interval = 0 }, want: "readiness.interval"},
		{name: "zero attempts", mutate: func(c *Config) { c.Readiness.MaxAttempts = 0 }, want: "readiness.max_attempts"},
		{name: "zero probe timeout", mutate: func(c *Config) { c.Probe.Timeout = 0 }, want: "probe.timeout"},
		{name: "empty app id", mutate: func(c *Config) { c.AppID = " " }, want: "app_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
