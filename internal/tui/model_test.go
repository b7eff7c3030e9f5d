package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"travel-assistant/internal/assistant"
	"travel-assistant/internal/domain"
	"travel-assistant/internal/usecase"
)

type stubChat struct {
	in  usecase.SendInput
	out usecase.SendOutput
	err error
}

func (s *stubChat) Send(_ context.Context, in usecase.SendInput) (usecase.SendOutput, error) {
	s.in = in
	return s.out, s.err
}

var (
	keyEnter      = tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter})
	keyShiftEnter = tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter, Mod: tea.ModShift})
	keyCtrlC      = tea.KeyPressMsg(tea.Key{Code: 'c', Mod: tea.ModCtrl})
)

func greeting() domain.Message {
	return domain.Message{ID: 1, Text: assistant.Greeting, Sender: domain.SenderAssistant, Features: assistant.GreetingFeatures}
}

func newTestModel(chat Chat, submitKey string) Model {
	m := NewModel(chat, usecase.SessionOutput{SessionID: "sess-1", Messages: []domain.Message{greeting()}}, submitKey)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func TestSubmit_StartsTurn(t *testing.T) {
	chat := &stubChat{}
	m := newTestModel(chat, "enter")
	m.input.SetValue("What's the weather like?")

	updated, cmd := m.Update(keyEnter)
	m = updated.(Model)
	require.NotNil(t, cmd)
	require.True(t, m.loading)
	require.Equal(t, "What's the weather like?", m.pending)
	require.Empty(t, m.input.Value())

	// the send command runs the turn against the chat service
	msg := m.send("What's the weather like?")()
	require.Equal(t, usecase.SendInput{SessionID: "sess-1", Text: "What's the weather like?"}, chat.in)
	require.IsType(t, turnDoneMsg{}, msg)
}

func TestSubmit_IgnoresBlankInput(t *testing.T) {
	m := newTestModel(&stubChat{}, "enter")
	m.input.SetValue("   ")

	updated, cmd := m.Update(keyEnter)
	m = updated.(Model)
	require.Nil(t, cmd)
	require.False(t, m.loading)
	require.Len(t, m.messages, 1)
}

func TestSubmit_DisabledWhileLoading(t *testing.T) {
	m := newTestModel(&stubChat{}, "enter")
	m.input.SetValue("first")
	updated, _ := m.Update(keyEnter)
	m = updated.(Model)

	m.input.SetValue("second")
	updated, cmd := m.Update(keyEnter)
	m = updated.(Model)
	require.Nil(t, cmd)
	require.Equal(t, "first", m.pending)
}

func TestSubmit_ConfigurableKey(t *testing.T) {
	m := newTestModel(&stubChat{}, "shift+enter")
	m.input.SetValue("help")

	updated, _ := m.Update(keyEnter)
	m = updated.(Model)
	require.False(t, m.loading)

	updated, cmd := m.Update(keyShiftEnter)
	m = updated.(Model)
	require.NotNil(t, cmd)
	require.True(t, m.loading)
}

func TestTurnDone_AppendsMessagesAndContext(t *testing.T) {
	m := newTestModel(&stubChat{}, "enter")
	m.loading = true
	m.pending = "I'm going to Tokyo in March"

	updated, _ := m.Update(turnDoneMsg{out: usecase.SendOutput{
		SessionID: "sess-1",
		Accepted:  true,
		Messages: []domain.Message{
			{ID: 2, Text: "I'm going to Tokyo in March", Sender: domain.SenderUser},
			{ID: 3, Text: "Tokyo is an amazing choice!", Sender: domain.SenderAssistant, Features: []string{"destination"}},
		},
		Context: domain.ConversationContext{Destination: "tokyo"},
	}})
	m = updated.(Model)
	require.False(t, m.loading)
	require.Empty(t, m.pending)
	require.Len(t, m.messages, 3)
	require.Equal(t, "tokyo", m.convCtx.Destination)

	view := ansi.Strip(m.render())
	require.Contains(t, view, "tokyo")
	require.NotContains(t, view, "No destination set")
}

func TestTurnDone_ErrorShowsFallbackMessage(t *testing.T) {
	m := newTestModel(&stubChat{}, "enter")
	m.loading = true
	m.pending = "hello"

	updated, _ := m.Update(turnDoneMsg{err: errors.New("store down")})
	m = updated.(Model)
	require.False(t, m.loading)
	require.Len(t, m.transcript, 3)
	require.Equal(t, "hello", m.transcript[1].Text)
	require.Equal(t, assistant.ErrorReply, m.transcript[2].Text)
	require.Equal(t, []string{domain.FeatureError}, m.transcript[2].Features)
	require.Zero(t, m.transcript[2].ID)
	// nothing was stored, so the session mirror is unchanged
	require.Len(t, m.messages, 1)
	require.Contains(t, ansi.Strip(m.render()), assistant.ErrorReply)
}

func TestTurnDone_ErrorThenSuccessKeepsStoredIDs(t *testing.T) {
	m := newTestModel(&stubChat{}, "enter")
	m.loading = true
	m.pending = "a message that was rejected"
	updated, _ := m.Update(turnDoneMsg{err: errors.New("message_too_long")})
	m = updated.(Model)

	m.loading = true
	m.pending = "hi"
	stored := []domain.Message{
		{ID: 2, Text: "hi", Sender: domain.SenderUser},
		{ID: 3, Text: "I'd love to help you with that!", Sender: domain.SenderAssistant, Features: []string{domain.FeatureGeneral}},
	}
	updated, _ = m.Update(turnDoneMsg{out: usecase.SendOutput{SessionID: "sess-1", Accepted: true, Messages: stored}})
	m = updated.(Model)

	require.Equal(t, append([]domain.Message{greeting()}, stored...), m.messages)
	require.Len(t, m.transcript, 5)

	seen := make(map[int]bool)
	for _, msg := range m.transcript {
		if msg.ID == 0 {
			continue
		}
		require.False(t, seen[msg.ID], "duplicate id %d", msg.ID)
		seen[msg.ID] = true
	}
	require.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(&stubChat{}, "enter")
	_, cmd := m.Update(keyCtrlC)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderSidebar_Placeholders(t *testing.T) {
	out := ansi.Strip(renderSidebar(domain.ConversationContext{}, sidebarWidth, 0))
	require.Contains(t, out, "No destination set")
	require.Contains(t, out, "Dates not specified")
	require.Contains(t, out, "Budget not set")
	require.Contains(t, out, "Trip Context")

	out = ansi.Strip(renderSidebar(domain.ConversationContext{Destination: "rome", Budget: "mentioned"}, sidebarWidth, 0))
	require.Contains(t, out, "rome")
	require.Contains(t, out, "mentioned")
	require.Contains(t, out, "Dates not specified")
}

func TestRenderTranscript_ShowsThinkingAndBadges(t *testing.T) {
	msgs := []domain.Message{{
		ID: 1, Text: "Sure", Sender: domain.SenderAssistant,
		Timestamp: time.Date(2024, 3, 1, 9, 5, 0, 0, time.Local), Features: []string{"budget"},
	}}
	out := ansi.Strip(renderTranscript(msgs, "cheap?", true, "*", 80))
	require.Contains(t, out, "Sure")
	require.Contains(t, out, "budget")
	require.Contains(t, out, "09:05")
	require.Contains(t, out, "cheap?")
	require.Contains(t, out, "AI is thinking...")

	out = ansi.Strip(renderTranscript(msgs, "", false, "*", 80))
	require.NotContains(t, out, "thinking")
}
