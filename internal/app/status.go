package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"deskhost/internal/control"
	"deskhost/internal/paths"
	"deskhost/internal/probe"
	"deskhost/internal/slot"
)

// Status summarises the launcher and its backend.
type Status struct {
	Addr         string
	BackendAlive bool

	LauncherRunning bool
	LauncherPID     int
	// BackendHealth is what the running launcher reports, empty when no
	// launcher answered.
	BackendHealth string

	// Record is the owned-backend record, nil when the launcher owns none.
	Record *slot.Record
}

// Status probes the backend, asks a running launcher for its view and reads
// the owned-backend record from the user data directory.
func (a *App) Status(ctx context.Context, timeout time.Duration) (Status, error) {
	cfg, err := a.Config()
	if err != nil {
		return Status{}, err
	}
	if timeout <= 0 {
		timeout = cfg.Probe.Timeout
	}
	ep := probe.Endpoint{Host: cfg.Backend.Host, Port: cfg.Backend.Port}
	st := Status{
		Addr:         ep.Addr(),
		BackendAlive: probe.New(ep, timeout).IsAlive(),
	}

	rc := paths.FromConfig(cfg).Resolve()
	rec, err := slot.LoadRecord(filepath.Join(rc.UserDataDirectory, slot.RecordFileName))
	switch {
	case err == nil:
		st.Record = &rec
	case !errors.Is(err, os.ErrNotExist):
		return st, fmt.Errorf("read backend record: %w", err)
	}

	err = a.withClient(ctx, timeout, func(ctx context.Context, client healthpb.HealthClient) error {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: control.BackendService})
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		st.LauncherRunning = true
		st.BackendHealth = resp.GetStatus().String()
		return nil
	})
	if errors.Is(err, control.ErrNotRunning) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if pid, err := launcherPID(); err == nil {
		st.LauncherPID = pid
	}
	return st, nil
}

var killProcess = func(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Stop asks the running launcher to exit. A forced stop may SIGKILL the
// launcher before its shutdown hook runs, so the backend named in a leftover
// record is killed here as well.
func (a *App) Stop(force bool) error {
	err := stopLauncher(force)
	if !force || (err != nil && !errors.Is(err, control.ErrNotRunning)) {
		return err
	}
	if rerr := a.reapBackend(); rerr != nil {
		return rerr
	}
	return err
}

func (a *App) reapBackend() error {
	rc, err := a.Paths()
	if err != nil {
		return err
	}
	path := filepath.Join(rc.UserDataDirectory, slot.RecordFileName)
	rec, err := slot.LoadRecord(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read backend record: %w", err)
	}
	if rec.PID > 0 {
		if err := killProcess(rec.PID); err != nil {
			return fmt.Errorf("kill backend %d: %w", rec.PID, err)
		}
	}
	return slot.RemoveRecord(path)
}
