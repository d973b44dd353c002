// Package app is the facade the deskhost commands are built on.
package app

import (
	"strings"

	"deskhost/internal/config"
	"deskhost/internal/paths"
)

// Options configures the top-level controller.
type Options struct {
	// ConfigPath points to the optional config file.
	ConfigPath string
	// RunMode and LaunchMode override the loaded config when set.
	RunMode    string
	LaunchMode string
}

// App exposes high-level operations that the CLI reuses.
type App struct {
	opts Options
}

// New constructs the shared controller facade.
func New(opts Options) *App {
	return &App{opts: opts}
}

// ConfigPath returns the configured config file path (if any).
func (a *App) ConfigPath() string {
	return a.opts.ConfigPath
}

// Config loads the configuration and applies the command line overrides.
func (a *App) Config() (config.Config, error) {
	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if a.opts.RunMode != "" {
		cfg.RunMode = strings.ToLower(a.opts.RunMode)
	}
	if a.opts.LaunchMode != "" {
		cfg.LaunchMode = strings.ToLower(a.opts.LaunchMode)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Paths resolves the RunModeContext for the configured run mode. The user
// data directory is created as a side effect.
func (a *App) Paths() (paths.RunModeContext, error) {
	cfg, err := a.Config()
	if err != nil {
		return paths.RunModeContext{}, err
	}
	return paths.FromConfig(cfg).Resolve(), nil
}
