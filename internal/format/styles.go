package format

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	priorityStyles = map[domain.Priority]lipgloss.Style{
		domain.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		domain.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

// PriorityStyle returns the style used to render p.
func PriorityStyle(p domain.Priority) lipgloss.Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
