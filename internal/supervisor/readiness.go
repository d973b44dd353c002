package supervisor

import (
	"time"
)

// Readiness defaults.
const (
	DefaultInterval    = 100 * time.Millisecond
	DefaultMaxAttempts = 100
)

// Gate polls a liveness check until it succeeds or the attempt budget runs
// out. OnReady fires at most once.
type Gate struct {
	Probe       Liveness
	Interval    time.Duration
	MaxAttempts int
	OnReady     func()

	sleep func(time.Duration)
}

// NewGate returns a gate with the default budget.
func NewGate(probe Liveness, onReady func()) *Gate {
	return &Gate{
		Probe:       probe,
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
		OnReady:     onReady,
	}
}

// Run probes up to MaxAttempts times, sleeping Interval between attempts but
// not after the last one. It returns the number of probes made and whether the
// backend became ready.
func (g *Gate) Run() (attempts int, ready bool) {
	sleep := g.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	limit := g.MaxAttempts
	if limit <= 0 {
		limit = DefaultMaxAttempts
	}

	for attempts = 1; attempts <= limit; attempts++ {
		if g.Probe.IsAlive() {
			if g.OnReady != nil {
				g.OnReady()
			}
			return attempts, true
		}
		if attempts < limit {
			sleep(g.Interval)
		}
	}
	return limit, false
}

// Start runs the gate on its own goroutine. The returned channel receives the
// outcome once.
func (g *Gate) Start() <-chan bool {
	out := make(chan bool, 1)
	go func() {
		_, ready := g.Run()
		out <- ready
	}()
	return out
}
