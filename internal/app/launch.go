package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"deskhost/internal/config"
	"deskhost/internal/control"
	"deskhost/internal/logging"
	"deskhost/internal/paths"
	"deskhost/internal/supervisor"
	"deskhost/internal/tui"
	"deskhost/internal/window"
)

// LogFileName is the launcher's own log in the user data directory, used
// while the terminal window is on screen.
const LogFileName = "deskhost.log"

var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// LaunchOptions selects the display surface.
type LaunchOptions struct {
	// Headless runs without the terminal window; Out receives the progress
	// lines (os.Stdout when nil).
	Headless bool
	Out      io.Writer
}

// Launch runs the whole launcher until the window is closed or ctx is done.
// It fails only when the config is invalid or simple launch mode aborts.
func (a *App) Launch(ctx context.Context, opts LaunchOptions) error {
	cfg, err := a.Config()
	if err != nil {
		return err
	}
	rc := paths.FromConfig(cfg).Resolve()

	// The window needs a terminal.
	fallback := !opts.Headless && !isTerminal()
	if fallback {
		opts.Headless = true
	}

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if opts.Headless {
		logging.Init(logCfg)
	} else if err := logging.InitFile(logCfg, filepath.Join(rc.UserDataDirectory, LogFileName)); err != nil {
		logging.Init(logCfg)
		logging.Warn().Err(err).Msg("log file unavailable; logging to stderr")
	}
	defer logging.Close()
	if fallback {
		logging.Warn().Msg("stdout is not a terminal; running headless")
	}

	srv := serveControl()
	if srv != nil {
		defer func() {
			if err := srv.Close(); err != nil {
				logging.Warn().Err(err).Msg("close control channel")
			}
		}()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Headless {
		surface := window.NewHeadless(opts.Out)
		if err := a.start(cfg, rc, surface, srv); err != nil {
			return err
		}
		surface.Wait(ctx)
		return nil
	}

	surface := tui.NewSurface(cfg.AppID)
	if err := a.start(cfg, rc, surface, srv); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		surface.Quit()
	}()
	return surface.Run()
}

func (a *App) start(cfg config.Config, rc paths.RunModeContext, surface window.Surface, srv *control.Server) error {
	opts := []supervisor.Option{}
	if srv != nil {
		opts = append(opts, supervisor.WithReadyHook(func() { srv.SetBackendReady(true) }))
	}
	sup := supervisor.New(cfg, rc, surface, opts...)
	logging.Info().
		Str("launch_id", sup.LaunchID()).
		Str("run_mode", cfg.RunMode).
		Str("launch_mode", cfg.LaunchMode).
		Str("interpreter", rc.InterpreterPath).
		Str("entry", rc.ServerEntryPath).
		Msg("launching")
	return sup.Start()
}

// serveControl starts the control channel. A second launcher, or any failure
// to bind, leaves the launch without one.
func serveControl() *control.Server {
	srv, err := control.Serve()
	if errors.Is(err, control.ErrAlreadyRunning) {
		logging.Warn().Msg("another launcher is running; continuing without control channel")
		return nil
	}
	if err != nil {
		logging.Warn().Err(err).Msg("control channel unavailable")
		return nil
	}
	return srv
}
