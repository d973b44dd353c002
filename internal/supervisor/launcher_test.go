package supervisor

import (
	"bufio"
	"errors"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"deskhost/internal/probe"
	"deskhost/internal/slot"
)

func TestSpawnSkippedWhenBackendAlive(t *testing.T) {
	rc := helperContext(t, "sleep")
	s := slot.New("")
	l := &Launcher{Prober: aliveAfter(1), Slot: s, Port: 4001, Log: zerolog.Nop()}

	proc, err := l.Spawn(rc)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if proc != nil {
		t.Fatalf("expected no process, got pid %d", proc.PID())
	}
	if s.Occupied() {
		t.Fatal("slot should stay empty when a backend is already running")
	}
}

func TestSpawnSkippedWhenPortBound(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	rc := helperContext(t, "sleep")
	s := slot.New("")
	l := &Launcher{
		Prober: probe.New(probe.Endpoint{Host: "127.0.0.1", Port: port}, 0),
		Slot:   s,
		Port:   port,
		Log:    zerolog.Nop(),
	}

	proc, err := l.Spawn(rc)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if proc != nil {
		t.Cleanup(func() { _ = proc.Kill() })
		t.Fatalf("a listener on the port must suppress the spawn, got pid %d", proc.PID())
	}
	if s.Occupied() {
		t.Fatal("slot should stay empty when the port is already bound")
	}
}

func TestSpawnStoresProcessInSlot(t *testing.T) {
	rc := helperContext(t, "sleep")
	s := slot.New("")
	l := &Launcher{Prober: never(), Slot: s, Port: 4001, LaunchID: "l1", Log: zerolog.Nop()}

	proc, err := l.Spawn(rc)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	t.Cleanup(func() { _ = proc.Kill() })

	rec, ok := s.Current()
	if !ok {
		t.Fatal("slot should hold the spawned process")
	}
	if rec.PID != proc.PID() || rec.LaunchID != "l1" {
		t.Fatalf("unexpected record %+v for pid %d", rec, proc.PID())
	}
	if proc.Exited() {
		t.Fatal("helper should still be running")
	}

	if err := proc.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	waitDone(t, proc.Done())
	if err := proc.Kill(); err != nil {
		t.Fatalf("second Kill should be a no-op, got %v", err)
	}
}

func TestSpawnPassesEnvironmentAndDir(t *testing.T) {
	rc := helperContext(t, "env")
	l := &Launcher{Prober: never(), Slot: slot.New(""), Port: 4555, CaptureOutput: true, Log: zerolog.Nop()}

	proc, err := l.Spawn(rc)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	out, err := io.ReadAll(proc.Stdout)
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	waitDone(t, proc.Done())

	got := map[string]string{}
	sc := bufio.NewScanner(strings.NewReader(string(out)))
	for sc.Scan() {
		k, v, _ := strings.Cut(sc.Text(), "=")
		got[k] = v
	}

	if got["PORT"] != "4555" {
		t.Fatalf("PORT = %q", got["PORT"])
	}
	if got["PUBLIC_DIR"] != rc.StaticAssetDirectory {
		t.Fatalf("PUBLIC_DIR = %q, want %q", got["PUBLIC_DIR"], rc.StaticAssetDirectory)
	}
	if got["APP_DATA_DIR"] != rc.UserDataDirectory {
		t.Fatalf("APP_DATA_DIR = %q, want %q", got["APP_DATA_DIR"], rc.UserDataDirectory)
	}
	if want := filepath.Join(rc.WorkingDirectory, "node_modules"); got["NODE_PATH"] != want {
		t.Fatalf("NODE_PATH = %q, want %q", got["NODE_PATH"], want)
	}
	wantDir, _ := filepath.EvalSymlinks(rc.WorkingDirectory)
	gotDir, _ := filepath.EvalSymlinks(got["CWD"])
	if gotDir != wantDir {
		t.Fatalf("cwd = %q, want %q", gotDir, wantDir)
	}
}

func TestEnvWithoutCaptureOmitsNodePath(t *testing.T) {
	l := &Launcher{Port: 4001}
	for _, kv := range l.Env(helperContext(t, "ok")) {
		if strings.HasPrefix(kv, EnvNodePath+"=") {
			t.Fatalf("NODE_PATH should not be set without output capture: %q", kv)
		}
	}
}

func TestSpawnFailure(t *testing.T) {
	rc := helperContext(t, "ok")
	rc.InterpreterPath = filepath.Join(t.TempDir(), "missing-node")
	s := slot.New("")
	l := &Launcher{Prober: never(), Slot: s, Port: 4001, CaptureOutput: true, Log: zerolog.Nop()}

	proc, err := l.Spawn(rc)
	if !errors.Is(err, ErrSpawn) {
		t.Fatalf("expected ErrSpawn, got %v", err)
	}
	if proc != nil || s.Occupied() {
		t.Fatal("failed spawn must not leave a process behind")
	}
}
