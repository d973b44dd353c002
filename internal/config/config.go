package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Run modes select how the backend's files are located.
const (
	RunModeDevelopment = "development"
	RunModePackaged    = "packaged"
)

// Launch modes select how spawn problems are reported and whether output is collected.
const (
	LaunchModeRich   = "rich"
	LaunchModeSimple = "simple"
)

const (
	defaultAppID              = "com.deskhost.app"
	defaultHost               = "127.0.0.1"
	defaultPort               = 4001
	defaultProbeTimeout       = 300 * time.Millisecond
	defaultReadinessInterval  = 100 * time.Millisecond
	defaultReadinessAttempts  = 100
	defaultConfigFileName     = "config.yaml"
	envPrefix                 = "DESKHOST_"
	defaultConfigDirComponent = "deskhost"
)

// Config aggregates everything the launcher can be tuned with.
type Config struct {
	AppID        string          `koanf:"app_id"`
	RunMode      string          `koanf:"run_mode"`
	LaunchMode   string          `koanf:"launch_mode"`
	ResourcesDir string          `koanf:"resources_dir"`
	Backend      BackendConfig   `koanf:"backend"`
	Probe        ProbeConfig     `koanf:"probe"`
	Readiness    ReadinessConfig `koanf:"readiness"`
	Log          LogConfig       `koanf:"log"`
}

// BackendConfig is where the supervised service is expected to listen.
type BackendConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// ProbeConfig tunes the liveness dial.
type ProbeConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// ReadinessConfig tunes the post-spawn polling loop.
type ReadinessConfig struct {
	Interval    time.Duration `koanf:"interval"`
	MaxAttempts int           `koanf:"max_attempts"`
}

// LogConfig configures the launcher's own log output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AppID:      defaultAppID,
		RunMode:    RunModePackaged,
		LaunchMode: LaunchModeRich,
		Backend: BackendConfig{
			Host: defaultHost,
			Port: defaultPort,
		},
		Probe: ProbeConfig{
			Timeout: defaultProbeTimeout,
		},
		Readiness: ReadinessConfig{
			Interval:    defaultReadinessInterval,
			MaxAttempts: defaultReadinessAttempts,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envKeys maps DESKHOST_* variables onto config keys. Keys contain underscores,
// so a generic "_" -> "." transform would be ambiguous.
var envKeys = map[string]string{
	"APP_ID":                 "app_id",
	"RUN_MODE":               "run_mode",
	"LAUNCH_MODE":            "launch_mode",
	"RESOURCES_DIR":          "resources_dir",
	"BACKEND_HOST":           "backend.host",
	"BACKEND_PORT":           "backend.port",
	"PROBE_TIMEOUT":          "probe.timeout",
	"READINESS_INTERVAL":     "readiness.interval",
	"READINESS_MAX_ATTEMPTS": "readiness.max_attempts",
	"LOG_LEVEL":              "log.level",
	"LOG_FORMAT":             "log.format",
}

// Load builds a Config from defaults, an optional YAML file and DESKHOST_* environment
// variables, in increasing priority. An empty path falls back to DefaultPath when that
// file exists.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		if candidate, err := DefaultPath(); err == nil {
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.RunMode = strings.ToLower(strings.TrimSpace(cfg.RunMode))
	cfg.LaunchMode = strings.ToLower(strings.TrimSpace(cfg.LaunchMode))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envTransform(name string) string {
	return envKeys[strings.TrimPrefix(name, envPrefix)]
}

// DefaultPath is the config file looked up when no explicit path is given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultConfigDirComponent, defaultConfigFileName), nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AppID) == "" {
		return errors.New("app_id must not be empty")
	}
	switch c.RunMode {
	case RunModeDevelopment, RunModePackaged:
	default:
		return fmt.Errorf("run_mode must be %q or %q, got %q", RunModeDevelopment, RunModePackaged, c.RunMode)
	}
	switch c.LaunchMode {
	case LaunchModeRich, LaunchModeSimple:
	default:
		return fmt.Errorf("launch_mode must be %q or %q, got %q", LaunchModeRich, LaunchModeSimple, c.LaunchMode)
	}
	if c.Backend.Host == "" {
		return errors.New("backend.host must not be empty")
	}
	if c.Backend.Port <= 0 || c.Backend.Port > 65535 {
		return fmt.Errorf("backend.port out of range: %d", c.Backend.Port)
	}
	if c.Probe.Timeout <= 0 {
		return errors.New("probe.timeout must be > 0")
	}
	if c.Readiness.Interval <= 0 {
		return errors.New("readiness.interval must be > 0")
	}
	if c.Readiness.MaxAttempts <= 0 {
		return errors.New("readiness.max_attempts must be > 0")
	}
	return nil
}
