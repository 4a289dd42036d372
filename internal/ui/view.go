package ui

import (
	"fmt"
	"strings"

	"CampusChat/internal/session"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.styles.Input.Render(m.textarea.View()),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.title
	if m.state.ConversationID != 0 {
		title = fmt.Sprintf("%s · conversation #%d", title, m.state.ConversationID)
	}
	return m.styles.Title.Render(title)
}

func (m Model) renderFooter() string {
	send := m.styles.SendDisabled.Render("send")
	if m.state.CanSend() {
		send = m.styles.SendEnabled.Render("send")
	}
	return send + " " + m.help.View(m.keys)
}

// renderMessages lays out the conversation top to bottom in append order,
// followed by the spinner while a reply is pending.
func (m Model) renderMessages() string {
	var sb strings.Builder

	for _, msg := range m.state.Messages {
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}

	if m.state.AwaitingReply {
		sb.WriteString(m.spinner.View())
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m Model) renderMessage(msg session.Message) string {
	text := msg.Text
	if !msg.IsUser && m.renderer != nil {
		text = m.safeRenderMarkdown(text)
	}

	caption := m.styles.Caption.Render(msg.Clock())
	body := text + "\n" + caption

	style := m.styles.BotBubble
	align := lipgloss.Left
	if msg.IsUser {
		style = m.styles.UserBubble
		align = lipgloss.Right
	}

	width := lipgloss.Width(body) + style.GetHorizontalPadding()
	if limit := m.bubbleWidth(); width > limit {
		width = limit
	}

	return lipgloss.PlaceHorizontal(m.width, align, style.Width(width).Render(body))
}

// bubbleWidth caps a message at 70% of the view.
func (m Model) bubbleWidth() int {
	w := m.width * 7 / 10
	if w < 10 {
		w = 10
	}
	return w
}

// safeRenderMarkdown falls back to the raw text if glamour fails or panics.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("markdown render panic", "panic", r)
			result = content
		}
	}()

	rendered, err := m.renderer.Render(content)
	if err != nil {
		m.logger.Warn("markdown render failed", "error", err)
		return content
	}
	return strings.TrimSpace(rendered)
}
