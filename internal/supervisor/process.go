package supervisor

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Process is a backend instance this launcher spawned and therefore owns.
//
// Stdout and Stderr are the read ends of the child's output pipes. They are
// independent of Cmd.Wait, which a reaper goroutine calls as soon as the child
// starts so it never lingers as a zombie.
type Process struct {
	// ID is the launch id the process was started under.
	ID string

	Cmd *exec.Cmd

	// Stdout and Stderr are nil when output is discarded.
	Stdout io.ReadCloser
	Stderr io.ReadCloser

	Started time.Time

	done chan struct{}

	mu      sync.RWMutex
	exitErr error
}

func newProcess(id string, cmd *exec.Cmd) *Process {
	return &Process{
		ID:   id,
		Cmd:  cmd,
		done: make(chan struct{}),
	}
}

// PID returns the process id, or -1 if the process never started.
func (p *Process) PID() int {
	if p.Cmd == nil || p.Cmd.Process == nil {
		return -1
	}
	return p.Cmd.Process.Pid
}

// CommandLine renders the command for logs and the status record.
func (p *Process) CommandLine() string {
	if p.Cmd == nil {
		return ""
	}
	return strings.Join(p.Cmd.Args, " ")
}

// Kill forcibly terminates the process. Killing an already exited process is
// not an error.
func (p *Process) Kill() error {
	if p.Cmd == nil || p.Cmd.Process == nil {
		return errors.New("process not started")
	}
	if err := p.Cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Done is closed once the process has exited and been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Exited reports whether the process has been reaped.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// ExitError returns the error from Wait, nil while running or on a clean exit.
func (p *Process) ExitError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.exitErr
}

func (p *Process) waitLoop() {
	err := p.Cmd.Wait()
	p.mu.Lock()
	p.exitErr = err
	p.mu.Unlock()
	close(p.done)
}
