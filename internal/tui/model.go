package tui

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"travel-assistant/internal/assistant"
	"travel-assistant/internal/domain"
	"travel-assistant/internal/usecase"
)

const (
	sidebarWidth = 34
	inputHeight  = 2
	// header, hint line and borders around the input
	chromeHeight = 6
)

// Chat is the part of usecase.ChatService the UI drives.
type Chat interface {
	Send(ctx context.Context, in usecase.SendInput) (usecase.SendOutput, error)
}

type turnDoneMsg struct {
	out usecase.SendOutput
	err error
}

// Model is the Bubble Tea model of the chat screen: transcript on the right,
// trip context on the left, input box at the bottom.
type Model struct {
	chat      Chat
	sessionID string
	submitKey string

	// messages mirrors the stored session. transcript is what is shown: the
	// stored messages plus failed turns, which carry ID 0 and are never saved.
	messages   []domain.Message
	transcript []domain.Message
	convCtx    domain.ConversationContext

	// pending is the text of the turn in flight; no other turn starts until it completes.
	pending string
	loading bool

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool
}

// NewModel builds the chat screen for an existing session. submitKey is
// "enter" or "shift+enter"; the other one inserts a newline.
func NewModel(chat Chat, session usecase.SessionOutput, submitKey string) Model {
	input := textarea.New()
	input.Placeholder = "Ask me about weather, culture, budget, language help, or trip planning..."
	input.ShowLineNumbers = false
	input.SetHeight(inputHeight)
	if submitKey != "shift+enter" {
		submitKey = "enter"
		input.KeyMap.InsertNewline.SetKeys("shift+enter")
	} else {
		input.KeyMap.InsertNewline.SetKeys("enter")
	}
	input.Focus()

	return Model{
		chat:      chat,
		sessionID: session.SessionID,
		submitKey: submitKey,
		messages:   session.Messages,
		transcript: append([]domain.Message(nil), session.Messages...),
		convCtx:   session.Context,
		input:     input,
		viewport:  viewport.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case m.submitKey:
			return m.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case turnDoneMsg:
		text := m.pending
		m.loading = false
		m.pending = ""
		if msg.err != nil {
			now := time.Now()
			m.transcript = append(m.transcript,
				domain.Message{Text: text, Sender: domain.SenderUser, Timestamp: now},
				domain.Message{
					Text:      assistant.ErrorReply,
					Sender:    domain.SenderAssistant,
					Timestamp: now,
					Features:  []string{domain.FeatureError},
				},
			)
		} else if msg.out.Accepted {
			m.messages = append(m.messages, msg.out.Messages...)
			m.transcript = append(m.transcript, msg.out.Messages...)
			m.convCtx = msg.out.Context
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}
	return m, nil
}

// submit is sendMessage: blank input and input typed while a turn is pending
// are ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if m.loading || strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.input.Reset()
	m.loading = true
	m.pending = text
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.send(text))
}

func (m Model) send(text string) tea.Cmd {
	chat, sessionID := m.chat, m.sessionID
	return func() tea.Msg {
		out, err := chat.Send(context.Background(), usecase.SendInput{SessionID: sessionID, Text: text})
		return turnDoneMsg{out: out, err: err}
	}
}

func (m *Model) resize() {
	mainWidth := max(m.width-sidebarWidth, 20)
	m.input.SetWidth(mainWidth - 2)
	m.viewport.SetWidth(mainWidth)
	m.viewport.SetHeight(max(m.height-inputHeight-chromeHeight, 3))
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.transcript, m.pending, m.loading, m.spinner.View(), m.viewport.Width()))
	m.viewport.GotoBottom()
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if !m.ready {
		return "Loading..."
	}
	mainWidth := max(m.width-sidebarWidth, 20)

	main := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Width(mainWidth).Render("AI Travel Assistant"),
		m.viewport.View(),
		inputStyle.Width(mainWidth).Render(m.input.View()),
		hintStyle.Width(mainWidth).Render(inputHint),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, renderSidebar(m.convCtx, sidebarWidth, m.height), main)
}
