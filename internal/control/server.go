// Package control exposes a running launcher to other deskhost invocations.
//
// While "deskhost run" is active it serves the standard gRPC health service on
// a UNIX socket. The overall status is SERVING for as long as the launcher is
// up; BackendService flips to SERVING once the backend accepts connections.
package control

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"deskhost/internal/logging"
)

// BackendService is the health service name tracking backend readiness.
const BackendService = "deskhost.backend"

var (
	// ErrNotRunning is returned when no launcher answers on the socket.
	ErrNotRunning = errors.New("deskhost is not running")
	// ErrAlreadyRunning is returned by Serve when another launcher owns the socket.
	ErrAlreadyRunning = errors.New("another deskhost launcher is running")
)

// Server is the control endpoint of a running launcher.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	ln     net.Listener
	loc    Location
}

// Serve binds the control socket at the default location.
func Serve() (*Server, error) {
	return Locate().Serve()
}

// Serve binds l.Socket, records our pid in l.PIDFile and starts answering
// health checks.
func (l Location) Serve() (*Server, error) {
	path := l.Socket
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create runtime dir: %w", err)
	}

	if l.socketExists() {
		if l.Running() {
			return nil, ErrAlreadyRunning
		}
		logging.Debug().Str("socket", path).Msg("removing stale control socket")
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, err
	}

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(BackendService, healthpb.HealthCheckResponse_NOT_SERVING)

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	s := &Server{grpc: gs, health: hs, ln: ln, loc: l}
	if err := l.writePID(os.Getpid()); err != nil {
		s.Close()
		return nil, fmt.Errorf("write pid file: %w", err)
	}

	go func() {
		if err := gs.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logging.Warn().Err(err).Msg("control server stopped")
		}
	}()
	logging.Info().Str("socket", path).Msg("control channel listening")
	return s, nil
}

// SetBackendReady updates the BackendService status.
func (s *Server) SetBackendReady(ready bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(BackendService, st)
}

// Location returns the control files the server owns.
func (s *Server) Location() Location { return s.loc }

// Close stops the server, unlinks the socket and removes the pid file.
func (s *Server) Close() error {
	s.health.Shutdown()
	s.grpc.Stop()
	if err := os.Remove(s.loc.Socket); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return s.loc.removePID()
}
