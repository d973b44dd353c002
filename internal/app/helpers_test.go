package app

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type fakeHealth struct {
	healthpb.HealthClient
	check func(ctx context.Context, in *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error)
}

func (f *fakeHealth) Check(ctx context.Context, in *healthpb.HealthCheckRequest, _ ...grpc.CallOption) (*healthpb.HealthCheckResponse, error) {
	if f.check != nil {
		return f.check(ctx, in)
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

type nopCloser struct{ closed *bool }

func (n nopCloser) Close() error {
	if n.closed != nil {
		*n.closed = true
	}
	return nil
}

func stubLauncher(t *testing.T, running bool, dial func(context.Context) (healthpb.HealthClient, io.Closer, error)) {
	t.Helper()
	resetControlDeps()
	launcherIsRunning = func() bool { return running }
	launcherPID = func() (int, error) { return 0, os.ErrNotExist }
	if dial == nil {
		dial = func(context.Context) (healthpb.HealthClient, io.Closer, error) {
			return nil, nil, errors.New("dial not stubbed")
		}
	}
	dialLauncher = dial
	t.Cleanup(resetControlDeps)
}

// isolate keeps config lookup, data dirs and control files inside t's temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("DESKHOST_RESOURCES_DIR", t.TempDir())
	t.Setenv("DESKHOST_RUN_MODE", "packaged")
	t.Setenv("DESKHOST_LAUNCH_MODE", "rich")

	rt, err := os.MkdirTemp("", "dh")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(rt) })
	t.Setenv("DESKHOST_SOCKET", "")
	t.Setenv("DESKHOST_RUNTIME_DIR", rt)
	return home
}
