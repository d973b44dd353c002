package tui

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	waitStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerLines = 3
)

// Model is the main window: a status header and the backend's page.
type Model struct {
	appName string
	client  *http.Client
	onClose func()

	spinner  spinner.Model
	viewport viewport.Model

	url     string
	page    Page
	loading bool
	err     error

	width  int
	height int
}

// New constructs the window model. onClose runs synchronously when the user
// closes the window, before the program quits.
func New(appName string, client *http.Client, onClose func()) *Model {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	return &Model{
		appName:  appName,
		client:   client,
		onClose:  onClose,
		spinner:  spin,
		viewport: viewport.New(80, 20),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		if msg.Height > headerLines {
			m.viewport.Height = msg.Height - headerLines
		}
		return m, nil

	case navigateMsg:
		m.url = msg.url
		m.loading = true
		m.err = nil
		return m, fetchCmd(m.client, m.url)

	case pageLoadedMsg:
		m.loading = false
		m.err = nil
		m.page = msg.page
		m.viewport.SetContent(renderPage(msg.page))
		m.viewport.GotoTop()
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.onClose != nil {
				m.onClose()
			}
			return m, tea.Quit
		case "r":
			if m.url != "" && !m.loading {
				m.loading = true
				return m, fetchCmd(m.client, m.url)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	switch {
	case m.url == "":
		b.WriteString(waitStyle.Render(m.spinner.View() + " Starting " + m.appName + "…"))
	case m.loading:
		b.WriteString(waitStyle.Render(m.spinner.View() + " Loading " + m.url))
	default:
		title := m.page.Title
		if title == "" {
			title = m.url
		}
		b.WriteString(titleStyle.Render(title))
	}
	b.WriteByte('\n')

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	b.WriteByte('\n')

	b.WriteString(m.viewport.View())
	b.WriteByte('\n')

	help := "q close • r reload • ↑/↓ scroll"
	if m.url != "" {
		help += " • " + m.url
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

// URL returns the page the window currently points at.
func (m *Model) URL() string { return m.url }

func renderPage(p Page) string {
	text := p.Text
	if p.Status >= 400 {
		text = fmt.Sprintf("HTTP %d\n\n%s", p.Status, text)
	}
	if strings.TrimSpace(text) == "" {
		return "(empty page)"
	}
	return text
}

type navigateMsg struct{ url string }

type pageLoadedMsg struct{ page Page }

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

