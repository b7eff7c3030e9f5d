package tui

import (
	"strings"

	"charm.land/lipgloss/v2"

	"travel-assistant/internal/domain"
)

const inputHint = `Try: "I'm going to Tokyo in March", "What's the weather like?", "Help with cultural tips", or "Find budget options"`

var (
	accent = lipgloss.Color("33")
	muted  = lipgloss.Color("245")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	sidebarStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(muted)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(muted)
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent)
	hintStyle      = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(accent).Padding(0, 1)
	assistantStyle = lipgloss.NewStyle().Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted)
	badgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("17")).Background(lipgloss.Color("153")).Padding(0, 1)
)

var capabilities = []struct{ name, detail string }{
	{"Weather Matching", "Activity suggestions based on forecast"},
	{"Cultural Context", "Local customs and etiquette"},
	{"Budget Optimization", "Maximize value, minimize costs"},
}

// orPlaceholder returns v, or placeholder when v is unset.
func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}

func renderSidebar(c domain.ConversationContext, width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("✈ TravelAI"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Your AI Travel Assistant"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Trip Context"))
	b.WriteString("\n")
	b.WriteString("📍 " + orPlaceholder(c.Destination, "No destination set") + "\n")
	b.WriteString("📅 " + orPlaceholder(c.Dates, "Dates not specified") + "\n")
	b.WriteString("💲 " + orPlaceholder(c.Budget, "Budget not set") + "\n")

	b.WriteString(sectionStyle.Render("AI Capabilities"))
	for _, item := range capabilities {
		b.WriteString("\n" + item.name + "\n")
		b.WriteString(mutedStyle.Render(item.detail) + "\n")
	}

	style := sidebarStyle.Width(width)
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(b.String())
}

func renderTranscript(msgs []domain.Message, pending string, loading bool, spin string, width int) string {
	if width <= 0 {
		width = 80
	}
	parts := make([]string, 0, len(msgs)+2)
	for _, m := range msgs {
		parts = append(parts, renderMessage(m, width))
	}
	if pending != "" {
		parts = append(parts, renderMessage(domain.Message{Text: pending, Sender: domain.SenderUser}, width))
	}
	if loading {
		parts = append(parts, mutedStyle.Render(spin+" AI is thinking..."))
	}
	return strings.Join(parts, "\n\n")
}

func renderMessage(m domain.Message, width int) string {
	bubbleWidth := max(width*3/4, 10)
	stamp := ""
	if !m.Timestamp.IsZero() {
		stamp = m.Timestamp.Format("15:04")
	}

	if m.Sender == domain.SenderUser {
		body := userStyle.Width(bubbleWidth).Render(m.Text)
		if stamp != "" {
			body = lipgloss.JoinVertical(lipgloss.Right, body, mutedStyle.Render(stamp))
		}
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, body)
	}

	content := m.Text
	if len(m.Features) > 0 {
		content += "\n\n" + renderBadges(m.Features)
	}
	if stamp != "" {
		content += "\n" + mutedStyle.Render(stamp)
	}
	return assistantStyle.Width(bubbleWidth).Render(content)
}

func renderBadges(features []string) string {
	badges := make([]string, 0, len(features))
	for _, f := range features {
		badges = append(badges, badgeStyle.Render(featureIcon(f)+" "+f))
	}
	return strings.Join(badges, " ")
}

func featureIcon(feature string) string {
	switch feature {
	case domain.FeatureWeather:
		return "☀"
	case domain.FeatureBudget:
		return "$"
	case domain.FeaturePlanning:
		return "📅"
	case domain.FeatureCulture:
		return "👤"
	case domain.FeatureDestination:
		return "📍"
	default:
		return "✈"
	}
}
