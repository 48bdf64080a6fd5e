package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/models"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	coachStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// SendMsg is emitted when the user submits a non-empty message.
type SendMsg struct {
	Text string
}

type Model struct {
	viewport viewport.Model
	input    textinput.Model
	messages []models.ChatMessage
	width    int
	height   int
}

func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask Greenie for a tip..."
	ti.CharLimit = 280
	ti.Prompt = "› "

	m := Model{
		viewport: viewport.New(width, max(height-2, 1)),
		input:    ti,
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

func (m *Model) Blur() {
	m.input.Blur()
}

func (m Model) Focused() bool {
	return m.input.Focused()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEnter {
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		return m, func() tea.Msg { return SendMsg{Text: text} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), "", m.input.View())
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	m.input.Width = max(width-4, 10)
	m.Render()
}

func (m *Model) SetMessages(msgs []models.ChatMessage) {
	m.messages = msgs
	m.Render()
}

func (m *Model) Render() {
	if len(m.messages) == 0 {
		m.viewport.SetContent("No messages yet. Say hello!")
		return
	}

	wrap := lipgloss.NewStyle().Width(max(m.width-2, 20))
	var b strings.Builder
	for _, msg := range m.messages {
		who := coachStyle.Render(constants.CoachName)
		if msg.IsUser {
			who = userStyle.Render("You")
		}
		b.WriteString(timeStyle.Render(msg.Timestamp.Format(constants.TimeFormat)) + " " + who + "\n")
		b.WriteString(wrap.Render(msg.Text) + "\n\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}
