// Package tui is the terminal window the launcher shows: a status header while
// the backend starts, then the backend's page rendered as text.
package tui

import (
	"net/http"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"deskhost/internal/window"
)

// Surface implements window.Surface on top of a Bubble Tea program.
type Surface struct {
	window.Hooks

	model *Model
	prog  *tea.Program
	close func()
}

var _ window.Surface = (*Surface)(nil)

// NewSurface builds the window. Nothing is drawn until Run.
func NewSurface(appName string, opts ...tea.ProgramOption) *Surface {
	s := &Surface{}
	s.close = sync.OnceFunc(s.RunCloseHooks)
	s.model = New(appName, &http.Client{}, s.close)
	s.prog = tea.NewProgram(s.model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	return s
}

// Navigate implements window.Surface. It blocks until the program accepts the
// message, or returns immediately once the program has exited.
func (s *Surface) Navigate(url string) {
	s.prog.Send(navigateMsg{url: url})
}

// ShowMessage implements window.Surface with a modal program of its own.
func (s *Surface) ShowMessage(title, body string) {
	ShowMessage(title, body)
}

// Run draws the window until it is closed. Close hooks are guaranteed to have
// run when Run returns, including when the program was ended by a signal.
func (s *Surface) Run() error {
	_, err := s.prog.Run()
	s.close()
	return err
}

// Quit closes the window as if the user had asked to.
func (s *Surface) Quit() {
	s.close()
	s.prog.Quit()
}
