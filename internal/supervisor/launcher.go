package supervisor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"deskhost/internal/paths"
	"deskhost/internal/slot"
)

// Environment handed to the backend.
const (
	EnvPort       = "PORT"
	EnvPublicDir  = "PUBLIC_DIR"
	EnvAppDataDir = "APP_DATA_DIR"
	EnvNodePath   = "NODE_PATH"

	nodeModulesDir = "node_modules"
)

// ErrSpawn wraps every failure to start the backend.
var ErrSpawn = errors.New("backend failed to start")

// Liveness is the subset of probe.Prober the launcher needs.
type Liveness interface {
	IsAlive() bool
}

// Launcher starts the backend unless an instance already answers on the port.
type Launcher struct {
	Prober Liveness
	Slot   *slot.Slot
	Port   int
	// CaptureOutput pipes stdout/stderr for the collector and sets NODE_PATH.
	// When false both streams are discarded.
	CaptureOutput bool
	LaunchID      string

	Log zerolog.Logger
}

// Spawn probes the endpoint and, when nothing is listening, starts
// "<interpreter> <entry>" in the working directory. It returns nil, nil when an
// existing instance was detected; that instance is neither collected nor owned.
// On success the process is stored in the slot.
func (l *Launcher) Spawn(rc paths.RunModeContext) (*Process, error) {
	if l.Prober != nil && l.Prober.IsAlive() {
		l.Log.Info().Msg("backend already running; not spawning")
		return nil, nil
	}

	cmd := exec.Command(rc.InterpreterPath, rc.ServerEntryPath)
	cmd.Dir = rc.WorkingDirectory
	cmd.Env = append(os.Environ(), l.Env(rc)...)
	cmd.Stdin = nil

	proc := newProcess(l.LaunchID, cmd)

	var parentEnds, childEnds []*os.File
	closeAll := func(files []*os.File) {
		for _, f := range files {
			_ = f.Close()
		}
	}
	if l.CaptureOutput {
		outR, outW, err := os.Pipe()
		if err != nil {
			return nil, fmt.Errorf("%w: stdout pipe: %v", ErrSpawn, err)
		}
		errR, errW, err := os.Pipe()
		if err != nil {
			closeAll([]*os.File{outR, outW})
			return nil, fmt.Errorf("%w: stderr pipe: %v", ErrSpawn, err)
		}
		cmd.Stdout, cmd.Stderr = outW, errW
		proc.Stdout, proc.Stderr = outR, errR
		parentEnds = []*os.File{outR, errR}
		childEnds = []*os.File{outW, errW}
	}

	if err := cmd.Start(); err != nil {
		closeAll(childEnds)
		closeAll(parentEnds)
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	// The child holds its own copies; ours must go so EOF reaches the drains.
	closeAll(childEnds)

	proc.Started = time.Now()
	go proc.waitLoop()

	l.Log.Info().
		Int("pid", proc.PID()).
		Str("cmd", proc.CommandLine()).
		Str("dir", cmd.Dir).
		Msg("backend spawned")

	if l.Slot != nil {
		rec := slot.Record{
			PID:       proc.PID(),
			Cmd:       proc.CommandLine(),
			LaunchID:  l.LaunchID,
			StartedAt: proc.Started.UTC(),
		}
		if err := l.Slot.Put(proc, rec); err != nil {
			// Never leave an unowned child behind.
			_ = proc.Kill()
			closeAll(parentEnds)
			return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
		}
	}
	return proc, nil
}

// Env returns the variables set on top of the inherited environment.
func (l *Launcher) Env(rc paths.RunModeContext) []string {
	env := []string{
		EnvPort + "=" + strconv.Itoa(l.Port),
		EnvPublicDir + "=" + rc.StaticAssetDirectory,
		EnvAppDataDir + "=" + rc.UserDataDirectory,
	}
	if l.CaptureOutput {
		env = append(env, EnvNodePath+"="+filepath.Join(rc.WorkingDirectory, nodeModulesDir))
	}
	return env
}
