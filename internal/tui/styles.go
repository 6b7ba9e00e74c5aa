package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tminus/internal/models"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle = lipgloss.NewStyle().Margin(0, 2)

	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	soonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	calmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))

	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 3)
)

var projectColors = map[models.Color]lipgloss.Color{
	models.ColorTeal:     lipgloss.Color("#2a9d8f"),
	models.ColorCoral:    lipgloss.Color("#e76f51"),
	models.ColorMustard:  lipgloss.Color("#e9c46a"),
	models.ColorCharcoal: lipgloss.Color("#6c757d"),
}

func projectStyle(c models.Color) lipgloss.Style {
	color, ok := projectColors[c]
	if !ok {
		color = projectColors[models.ColorTeal]
	}
	return nameStyle.Foreground(color)
}
