package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	cursorStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	labelStyle    = lipgloss.NewStyle().Width(13).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	badgeBase     = lipgloss.NewStyle().Padding(0, 1)
	fallbackBadge = badgeBase.Foreground(lipgloss.Color("#374151"))
)

// badgeStyles colour moods, priorities and categories. Moods are coloured
// text; priorities and categories are filled pills.
var badgeStyles = map[string]lipgloss.Style{
	"Happy":   badgeBase.Foreground(lipgloss.Color("#CA8A04")),
	"Sad":     badgeBase.Foreground(lipgloss.Color("#2563EB")),
	"Anxious": badgeBase.Foreground(lipgloss.Color("#EF4444")),
	"Excited": badgeBase.Foreground(lipgloss.Color("#16A34A")),
	"Calm":    badgeBase.Foreground(lipgloss.Color("#9333EA")),

	"High":   badgeBase.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#EF4444")),
	"Medium": badgeBase.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#EAB308")),
	"Low":    badgeBase.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#22C55E")),

	"Breakfast": badgeBase.Foreground(lipgloss.Color("#713F12")).Background(lipgloss.Color("#FDE047")),
	"Lunch":     badgeBase.Foreground(lipgloss.Color("#166534")).Background(lipgloss.Color("#BBF7D0")),
	"Dinner":    badgeBase.Foreground(lipgloss.Color("#6B21A8")).Background(lipgloss.Color("#E9D5FF")),
	"Dessert":   badgeBase.Foreground(lipgloss.Color("#9D174D")).Background(lipgloss.Color("#FBCFE8")),
}

func badge(v string) string {
	if v == "" {
		return ""
	}
	if s, ok := badgeStyles[v]; ok {
		return s.Render(v)
	}
	return fallbackBadge.Render(v)
}
