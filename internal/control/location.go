package control

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const (
	socketName  = "deskhost.sock"
	pidFileName = "deskhost.pid"
)

// Location names the files a running launcher publishes: the control socket
// and its pid file, which always sits next to the socket.
type Location struct {
	Socket  string
	PIDFile string
}

// Locate resolves the control files for the current user.
//
// DESKHOST_SOCKET names the socket outright. Otherwise it lives in
// DESKHOST_RUNTIME_DIR, then the user's runtime dir on Linux, then /tmp.
func Locate() Location {
	return At(socketFromEnv())
}

// At returns the location for an explicit socket path.
func At(socket string) Location {
	return Location{Socket: socket, PIDFile: filepath.Join(filepath.Dir(socket), pidFileName)}
}

func socketFromEnv() string {
	if s := os.Getenv("DESKHOST_SOCKET"); s != "" {
		return s
	}
	dir := os.Getenv("DESKHOST_RUNTIME_DIR")
	if dir == "" && runtime.GOOS == "linux" {
		if dir = os.Getenv("XDG_RUNTIME_DIR"); dir == "" {
			dir = filepath.Join("/run/user", uid())
		}
	}
	if dir == "" {
		// sun_path is short, so stay out of $TMPDIR
		return filepath.Join("/tmp", "deskhost-"+uid()+".sock")
	}
	return filepath.Join(dir, socketName)
}

func uid() string {
	if id := os.Getuid(); id >= 0 {
		return strconv.Itoa(id)
	}
	return "0"
}

func (l Location) socketExists() bool {
	_, err := os.Stat(l.Socket)
	return err == nil
}

// PID reads the launcher pid. A missing pid file returns os.ErrNotExist.
func (l Location) PID() (int, error) {
	data, err := os.ReadFile(l.PIDFile)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pid file %s: %w", l.PIDFile, err)
	}
	return pid, nil
}

func (l Location) writePID(pid int) error {
	if err := os.MkdirAll(filepath.Dir(l.PIDFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(l.PIDFile, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func (l Location) removePID() error {
	if err := os.Remove(l.PIDFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RunningPID returns the pid recorded by the launcher at the default location.
func RunningPID() (int, error) {
	return Locate().PID()
}
