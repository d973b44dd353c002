// Package window defines the display surface the supervisor drives, plus a
// headless implementation for running without a terminal UI.
package window

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"deskhost/internal/logging"
)

// Surface is what the supervisor needs from the main window. Implementations must
// be safe to call from any goroutine.
type Surface interface {
	// Navigate points the window's content at url.
	Navigate(url string)
	// ShowMessage displays a modal message and returns once it is dismissed.
	ShowMessage(title, body string)
	// OnCloseRequested registers fn to run synchronously when the window is asked
	// to close, before the application exits.
	OnCloseRequested(fn func())
}

// Hooks is a goroutine-safe list of close callbacks. Surfaces embed it.
type Hooks struct {
	mu  sync.Mutex
	fns []func()
}

// OnCloseRequested implements Surface.
func (h *Hooks) OnCloseRequested(fn func()) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

// RunCloseHooks calls every registered hook in registration order.
func (h *Hooks) RunCloseHooks() {
	h.mu.Lock()
	fns := append([]func(){}, h.fns...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Headless is a Surface without a UI: navigation and messages are printed, and
// SIGINT/SIGTERM act as the close request.
type Headless struct {
	Hooks

	Out io.Writer

	mu      sync.Mutex
	current string
}

// NewHeadless returns a Headless surface writing to out (os.Stdout when nil).
func NewHeadless(out io.Writer) *Headless {
	if out == nil {
		out = os.Stdout
	}
	return &Headless{Out: out}
}

// Navigate implements Surface.
func (h *Headless) Navigate(url string) {
	h.mu.Lock()
	h.current = url
	h.mu.Unlock()
	logging.Info().Str("url", url).Msg("navigate")
	fmt.Fprintf(h.Out, "Backend ready at %s\n", url)
}

// ShowMessage implements Surface.
func (h *Headless) ShowMessage(title, body string) {
	logging.Warn().Str("title", title).Msg(body)
	fmt.Fprintf(h.Out, "%s\n\n%s\n", title, body)
}

// Current returns the last navigated URL.
func (h *Headless) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Wait blocks until ctx is done or SIGINT/SIGTERM arrives, then runs the close
// hooks.
func (h *Headless) Wait(ctx context.Context) {
	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	select {
	case <-ctx.Done():
	case sig := <-sigc:
		logging.Info().Str("signal", sig.String()).Msg("close requested")
	}
	h.RunCloseHooks()
}
