// ABOUTME: Bubble Tea chat interface for the Pawsonality assistant
// ABOUTME: Renders the conversation in a viewport and calls the composer asynchronously
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/models"
)

// ChatPort is the TUI-facing subset of the composer.
type ChatPort interface {
	ComposeWith(ctx context.Context, req core.Request) models.ChatAnswer
	Greeting(typeCode string) string
}

// TypeChecker validates personality codes entered with /type.
type TypeChecker interface {
	Type(code string) (models.PersonalityType, bool)
}

type answerMsg struct {
	answer  models.ChatAnswer
	session int
}

// entry is one rendered line of the transcript
type entry struct {
	role    string
	text    string
	sources []string
}

// Model is the Bubble Tea model for the chat.
type Model struct {
	chat     ChatPort
	types    TypeChecker
	input    textinput.Model
	viewport viewport.Model

	// history is what gets sent as context; transcript is what gets shown.
	// Fallback apologies appear in the transcript only.
	history    []models.ChatTurn
	transcript []entry
	session    int

	typeCode string
	model    string
	status   string
	greeting string
	pending  bool
	ready    bool
}

// New creates a chat model. typeCode and model may be empty.
func New(chat ChatPort, types TypeChecker, typeCode, model string) Model {
	ti := textinput.New()
	ti.Prompt = "🐾 "
	ti.Placeholder = "Ask about your dog, /type CODE, /reset or /quit"
	ti.Focus()
	ti.CharLimit = 1000
	vp := viewport.New(0, 0)

	code := strings.ToUpper(strings.TrimSpace(typeCode))
	return Model{
		chat:     chat,
		types:    types,
		input:    ti,
		viewport: vp,
		typeCode: code,
		model:    model,
		greeting: chat.Greeting(code),
		status:   "Ready.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := transcriptStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		reserved := 2 + ih + bh + 1 // header, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil

	case answerMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.pending = false
		m.transcript = append(m.transcript, entry{role: models.RoleAssistant, text: msg.answer.Message, sources: msg.answer.Sources})
		if msg.answer.Mode != models.ModeFallback {
			m.history = append(m.history, models.ChatTurn{Role: models.RoleAssistant, Content: msg.answer.Message})
		}
		m.status = fmt.Sprintf("%s · confidence %.2f", msg.answer.Mode, msg.answer.Confidence)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.Type {
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.command(text)
	}
	if m.pending {
		return m, nil
	}
	m.input.SetValue("")

	req := core.Request{
		Message:  text,
		History:  append([]models.ChatTurn(nil), m.history...),
		TypeCode: m.typeCode,
		Model:    m.model,
	}
	m.history = append(m.history, models.ChatTurn{Role: models.RoleUser, Content: text})
	m.transcript = append(m.transcript, entry{role: models.RoleUser, text: text})
	m.pending = true
	m.status = "Thinking..."
	m.refresh()
	return m, m.ask(req)
}

func (m Model) command(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/reset":
		m.history = nil
		m.transcript = nil
		m.pending = false
		m.session++
		m.status = "Conversation cleared."
	case "/type":
		if len(fields) < 2 {
			m.typeCode = ""
			m.status = "Personality type cleared."
			break
		}
		code := strings.ToUpper(fields[1])
		if m.types != nil {
			if _, ok := m.types.Type(code); !ok {
				m.status = "Unknown personality type: " + code
				break
			}
		}
		m.typeCode = code
		m.greeting = m.chat.Greeting(code)
		m.status = "Personality type set to " + code + "."
	default:
		m.status = "Unknown command: " + fields[0]
	}
	m.refresh()
	return m, nil
}

func (m Model) ask(req core.Request) tea.Cmd {
	chat, session := m.chat, m.session
	return func() tea.Msg {
		return answerMsg{answer: chat.ComposeWith(context.Background(), req), session: session}
	}
}

// refresh re-renders the transcript and scrolls to the newest message
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := "Pawsonality Chat"
	if m.typeCode != "" {
		title += " · " + m.typeCode
	}
	header := headerStyle.Render(title)
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	var sb strings.Builder
	sb.WriteString(assistantStyle.Render(m.greeting))

	for _, e := range m.transcript {
		sb.WriteString("\n\n")
		if e.role == models.RoleUser {
			sb.WriteString(userStyle.Render("You: ") + e.text)
			continue
		}
		sb.WriteString(assistantStyle.Render("Pawsonality: ") + e.text)
		if len(e.sources) > 0 {
			sb.WriteString("\n" + sourceStyle.Render("sources: "+strings.Join(e.sources, ", ")))
		}
	}
	if m.pending {
		sb.WriteString("\n\n" + sourceStyle.Render("..."))
	}
	return sb.String()
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sourceStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
)
