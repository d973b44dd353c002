package control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const pingTimeout = 300 * time.Millisecond

// Dial opens a gRPC connection to the launcher over the UNIX socket.
func Dial(ctx context.Context) (healthpb.HealthClient, *grpc.ClientConn, error) {
	return Locate().Dial(ctx)
}

// Dial opens a gRPC connection to the launcher listening on l.Socket.
func (l Location) Dial(ctx context.Context) (healthpb.HealthClient, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(
		l.target(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(unixDialer),
	)
	if err != nil {
		return nil, nil, err
	}
	conn.Connect()
	if err := waitForReady(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return healthpb.NewHealthClient(conn), conn, nil
}

// IsRunning reports whether a launcher answers health checks on the socket.
func IsRunning() bool {
	return Locate().Running()
}

// Running reports whether a launcher answers health checks on l.Socket.
func (l Location) Running() bool {
	if !l.socketExists() {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	client, conn, err := l.Dial(ctx)
	if err != nil {
		return false
	}
	defer conn.Close()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
}

// BackendStatus asks the running launcher whether its backend is ready.
func BackendStatus(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	l := Locate()
	if !l.socketExists() {
		return healthpb.HealthCheckResponse_UNKNOWN, ErrNotRunning
	}
	client, conn, err := l.Dial(ctx)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer conn.Close()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: BackendService})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func (l Location) target() string {
	if trimmed, ok := strings.CutPrefix(l.Socket, "/"); ok {
		return "unix:///" + trimmed
	}
	return "unix://" + l.Socket
}

func unixDialer(ctx context.Context, addr string) (net.Conn, error) {
	if trimmed, ok := strings.CutPrefix(addr, "unix://"); ok {
		addr = trimmed
	}
	var d net.Dialer
	return d.DialContext(ctx, "unix", addr)
}

func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		switch state := conn.GetState(); state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection is shut down")
		default:
			if !conn.WaitForStateChange(ctx, state) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("grpc connection stuck in state %s", state.String())
			}
		}
	}
}
