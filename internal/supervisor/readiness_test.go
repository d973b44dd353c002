package supervisor

import (
	"net"
	"testing"
	"time"

	"deskhost/internal/probe"
)

// clockProbe is alive once the fake clock reaches openAt.
type clockProbe struct {
	now    time.Duration
	openAt time.Duration
	calls  int
}

func (c *clockProbe) IsAlive() bool {
	c.calls++
	return c.now >= c.openAt
}

func (c *clockProbe) sleep(d time.Duration) { c.now += d }

func TestGateReadyOnFourthAttempt(t *testing.T) {
	clock := &clockProbe{openAt: 300 * time.Millisecond}
	fired := 0
	g := NewGate(clock, func() { fired++ })
	g.sleep = clock.sleep

	attempts, ready := g.Run()

	if !ready || attempts != 4 {
		t.Fatalf("expected ready on attempt 4, got attempts=%d ready=%v", attempts, ready)
	}
	if fired != 1 {
		t.Fatalf("OnReady should fire once, fired %d", fired)
	}
	if clock.now != 300*time.Millisecond {
		t.Fatalf("expected 300ms slept, got %v", clock.now)
	}
}

func TestGateGivesUpAfterBudget(t *testing.T) {
	clock := &clockProbe{openAt: time.Hour}
	fired := 0
	g := NewGate(clock, func() { fired++ })
	g.sleep = clock.sleep

	attempts, ready := g.Run()

	if ready {
		t.Fatal("gate should not report ready")
	}
	if attempts != 100 || clock.calls != 100 {
		t.Fatalf("expected exactly 100 probes, got attempts=%d calls=%d", attempts, clock.calls)
	}
	if fired != 0 {
		t.Fatal("OnReady must not fire on timeout")
	}
	if clock.now != 99*DefaultInterval {
		t.Fatalf("no sleep expected after the last attempt, slept %v", clock.now)
	}
}

func TestGateStartReportsOutcome(t *testing.T) {
	g := NewGate(aliveAfter(1), nil)
	select {
	case ready := <-g.Start():
		if !ready {
			t.Fatal("expected ready")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("gate did not finish")
	}
}

func TestGateWithRealListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	g := &Gate{
		Probe:       probe.New(probe.Endpoint{Host: "127.0.0.1", Port: port}, 0),
		Interval:    time.Millisecond,
		MaxAttempts: 5,
	}
	if attempts, ready := g.Run(); !ready || attempts != 1 {
		t.Fatalf("expected immediate readiness, got attempts=%d ready=%v", attempts, ready)
	}
}
