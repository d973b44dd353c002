// Package supervisor starts the backend service, collects its output, waits for
// it to accept connections and kills it when the window closes.
//
// The flow is driven once per launch by Supervisor.Start:
//
//	probe -> (spawn -> slot) -> collector -> readiness gate -> Navigate
//
// Everything after the spawn decision runs on background goroutines that are
// never joined; the display surface's event loop owns the main goroutine.
package supervisor

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"deskhost/internal/config"
	"deskhost/internal/logging"
	"deskhost/internal/paths"
	"deskhost/internal/probe"
	"deskhost/internal/slot"
	"deskhost/internal/window"
)

// Supervisor wires the launch sequence for one run.
type Supervisor struct {
	cfg     config.Config
	rc      paths.RunModeContext
	surface window.Surface

	launchID   string
	prober     Liveness
	slot       *slot.Slot
	readyHooks []func()
	gateSleep  func(time.Duration)

	log zerolog.Logger

	proc      *Process
	collected <-chan struct{}
	ready     <-chan bool
}

// Option customises a Supervisor.
type Option func(*Supervisor)

// WithLaunchID overrides the generated launch id.
func WithLaunchID(id string) Option {
	return func(s *Supervisor) {
		if id != "" {
			s.launchID = id
		}
	}
}

// WithProber replaces the TCP liveness check.
func WithProber(p Liveness) Option {
	return func(s *Supervisor) { s.prober = p }
}

// WithReadyHook adds fn to run after the surface has navigated.
func WithReadyHook(fn func()) Option {
	return func(s *Supervisor) {
		if fn != nil {
			s.readyHooks = append(s.readyHooks, fn)
		}
	}
}

// New prepares a supervisor. Nothing is started until Start.
func New(cfg config.Config, rc paths.RunModeContext, surface window.Surface, opts ...Option) *Supervisor {
	s := &Supervisor{
		cfg:      cfg,
		rc:       rc,
		surface:  surface,
		launchID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prober == nil {
		s.prober = probe.New(s.endpoint(), cfg.Probe.Timeout)
	}
	recordPath := ""
	if rc.UserDataDirectory != "" {
		recordPath = filepath.Join(rc.UserDataDirectory, slot.RecordFileName)
	}
	s.slot = slot.New(recordPath)
	s.log = logging.With().
		Str("component", "supervisor").
		Str("launch_id", s.launchID).
		Logger()
	return s
}

// Start runs the launch sequence. It only returns an error in simple launch
// mode, where a missing interpreter or a failed spawn aborts startup after the
// surface has shown a message. In rich mode a failed spawn is logged and the
// application keeps running without a backend.
func (s *Supervisor) Start() error {
	s.surface.OnCloseRequested(ShutdownHook{Slot: s.slot}.Fire)

	simple := s.cfg.LaunchMode == config.LaunchModeSimple
	if simple {
		if err := Preflight(s.rc.InterpreterPath); err != nil {
			s.log.Error().Err(err).Msg("interpreter not available")
			s.surface.ShowMessage(MsgNodeRequiredTitle, MsgNodeRequiredBody)
			return err
		}
	}

	l := &Launcher{
		Prober:        s.prober,
		Slot:          s.slot,
		Port:          s.cfg.Backend.Port,
		CaptureOutput: !simple,
		LaunchID:      s.launchID,
		Log:           s.log,
	}
	proc, err := l.Spawn(s.rc)
	if err != nil {
		if simple {
			s.surface.ShowMessage(MsgSpawnFailedTitle, err.Error())
			return err
		}
		s.log.Error().Err(err).Msg("backend spawn failed; continuing without backend")
		return nil
	}

	if proc != nil {
		s.proc = proc
		s.collected = Attach(proc, s.rc.UserDataDirectory)
	}

	gate := &Gate{
		Probe:       s.prober,
		Interval:    s.cfg.Readiness.Interval,
		MaxAttempts: s.cfg.Readiness.MaxAttempts,
		OnReady:     s.onReady,
		sleep:       s.gateSleep,
	}
	s.ready = gate.Start()
	return nil
}

func (s *Supervisor) onReady() {
	url := s.endpoint().URL()
	s.log.Info().Str("url", url).Msg("backend ready")
	s.surface.Navigate(url)
	for _, fn := range s.readyHooks {
		fn()
	}
}

func (s *Supervisor) endpoint() probe.Endpoint {
	return probe.Endpoint{Host: s.cfg.Backend.Host, Port: s.cfg.Backend.Port}
}

// LaunchID returns the id attached to this launch's logs and record.
func (s *Supervisor) LaunchID() string { return s.launchID }

// Slot exposes the owned-process slot.
func (s *Supervisor) Slot() *slot.Slot { return s.slot }

// Process returns the spawned backend, nil when none was spawned.
func (s *Supervisor) Process() *Process { return s.proc }

// Ready yields the readiness outcome once. It is nil when no gate was started.
func (s *Supervisor) Ready() <-chan bool { return s.ready }

// Collected is closed once both output drains finish. It is nil when nothing
// was spawned.
func (s *Supervisor) Collected() <-chan struct{} { return s.collected }

// Shutdown fires the shutdown hook directly, for callers that exit without a
// close request from the surface.
func (s *Supervisor) Shutdown() {
	ShutdownHook{Slot: s.slot}.Fire()
}

