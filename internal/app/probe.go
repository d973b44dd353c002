package app

import (
	"fmt"
	"time"

	"deskhost/internal/probe"
)

// Probe performs one liveness check against the configured backend endpoint.
// A non-positive timeout uses the configured one.
func (a *App) Probe(timeout time.Duration) (string, error) {
	cfg, err := a.Config()
	if err != nil {
		return "", err
	}
	if timeout <= 0 {
		timeout = cfg.Probe.Timeout
	}
	ep := probe.Endpoint{Host: cfg.Backend.Host, Port: cfg.Backend.Port}
	if !probe.New(ep, timeout).IsAlive() {
		return ep.Addr(), fmt.Errorf("backend is not running on %s", ep.Addr())
	}
	return ep.Addr(), nil
}
