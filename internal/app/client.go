package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"deskhost/internal/control"
)

var (
	launcherIsRunning = control.IsRunning
	launcherPID       = control.RunningPID
	stopLauncher      = control.StopRunning
	dialLauncher      = func(ctx context.Context) (healthpb.HealthClient, io.Closer, error) {
		client, conn, err := control.Dial(ctx)
		if err != nil {
			return nil, nil, err
		}
		return client, conn, nil
	}
)

func resetControlDeps() {
	launcherIsRunning = control.IsRunning
	launcherPID = control.RunningPID
	stopLauncher = control.StopRunning
	dialLauncher = func(ctx context.Context) (healthpb.HealthClient, io.Closer, error) {
		client, conn, err := control.Dial(ctx)
		if err != nil {
			return nil, nil, err
		}
		return client, conn, nil
	}
}

func (a *App) withClient(ctx context.Context, timeout time.Duration, fn func(context.Context, healthpb.HealthClient) error) error {
	if timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	}
	if !launcherIsRunning() {
		return control.ErrNotRunning
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, conn, err := dialLauncher(ctx)
	if err != nil {
		return fmt.Errorf("connect to launcher: %w", err)
	}
	if conn != nil {
		defer conn.Close()
	}

	return fn(ctx, client)
}
