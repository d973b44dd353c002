package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("203")).
	Padding(1, 2)

type messageModel struct {
	title string
	body  string
	width int
}

func (m messageModel) Init() tea.Cmd { return nil }

func (m messageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m messageModel) View() string {
	style := boxStyle
	if m.width > 8 {
		style = style.MaxWidth(m.width).Width(min(m.width-4, 72))
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.body)
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("press any key"))
	return style.Render(b.String()) + "\n"
}

// ShowMessage displays a modal box and blocks until a key is pressed. If the
// terminal cannot be used the message is lost; callers log it beforehand.
func ShowMessage(title, body string) {
	_, _ = tea.NewProgram(messageModel{title: title, body: body}).Run()
}
