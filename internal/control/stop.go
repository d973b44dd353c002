package control

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

const (
	termGrace = 3 * time.Second
	killGrace = 2 * time.Second
	pollEvery = 100 * time.Millisecond
)

// StopRunning stops the launcher at the default location.
func StopRunning(force bool) error {
	return Locate().Stop(force)
}

// Stop asks the launcher to exit with SIGTERM, which closes its window and
// kills the backend it owns. With force, a launcher still alive after the
// grace period is sent SIGKILL and its backend is left behind.
func (l Location) Stop(force bool) error {
	pid, err := l.PID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if l.Running() {
				return fmt.Errorf("launcher is running but PID file %q is missing; stop it manually", l.PIDFile)
			}
			return ErrNotRunning
		}
		return fmt.Errorf("unable to read launcher PID: %w", err)
	}
	if pid == os.Getpid() {
		return errors.New("refusing to stop current process")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := l.signal(proc, syscall.SIGTERM); err != nil {
		return err
	}
	if l.waitForShutdown(termGrace) {
		return nil
	}
	if !force {
		return fmt.Errorf("launcher process %d did not exit after SIGTERM", pid)
	}
	if err := l.signal(proc, syscall.SIGKILL); err != nil {
		return err
	}
	if l.waitForShutdown(killGrace) {
		return nil
	}
	return fmt.Errorf("launcher process %d did not exit after SIGKILL", pid)
}

func (l Location) signal(proc *os.Process, sig syscall.Signal) error {
	if err := proc.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = l.removePID()
			return nil
		}
		return err
	}
	return nil
}

func (l Location) waitForShutdown(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !l.Running() {
			_ = l.removePID()
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollEvery)
	}
}
