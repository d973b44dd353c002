// Package probe answers "is something accepting connections on the backend port?".
package probe

import (
	"net"
	"strconv"
	"time"
)

// DefaultTimeout bounds a single dial.
const DefaultTimeout = 300 * time.Millisecond

// Endpoint is the fixed local address the backend is expected to listen on.
type Endpoint struct {
	Host string
	Port int
}

// Addr returns host:port.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// URL returns the root URL of the service.
func (e Endpoint) URL() string {
	return "http://" + e.Addr() + "/"
}

// Prober performs TCP liveness checks against an Endpoint.
type Prober struct {
	Endpoint Endpoint
	Timeout  time.Duration

	dial func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// New returns a Prober for ep. A non-positive timeout uses DefaultTimeout.
func New(ep Endpoint, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{Endpoint: ep, Timeout: timeout, dial: net.DialTimeout}
}

// IsAlive reports whether a TCP connection to the endpoint succeeds. Every dial
// error (refused, timeout, unreachable) is reported as false.
func (p *Prober) IsAlive() bool {
	dial := p.dial
	if dial == nil {
		dial = net.DialTimeout
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	conn, err := dial("tcp", p.Endpoint.Addr(), timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
