package ui

import "github.com/charmbracelet/lipgloss"

var (
	maroon = lipgloss.Color("#500000")
	navy   = lipgloss.Color("#003C71")
	white  = lipgloss.Color("#FFFFFF")
	muted  = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#666666"}
)

// Styles groups the lipgloss styles used by the view.
type Styles struct {
	Title        lipgloss.Style
	UserBubble   lipgloss.Style
	BotBubble    lipgloss.Style
	Caption      lipgloss.Style
	Input        lipgloss.Style
	SendEnabled  lipgloss.Style
	SendDisabled lipgloss.Style
}

// DefaultStyles returns the maroon and blue palette.
func DefaultStyles() Styles {
	bubble := lipgloss.NewStyle().
		Foreground(white).
		Padding(0, 1).
		MarginBottom(1)

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(maroon).
			Padding(0, 1),
		UserBubble: bubble.Background(maroon),
		BotBubble:  bubble.Background(navy),
		Caption: lipgloss.NewStyle().
			Faint(true),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted),
		SendEnabled: lipgloss.NewStyle().
			Bold(true).
			Foreground(white).
			Background(maroon).
			Padding(0, 1),
		SendDisabled: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
	}
}
