package ui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = lipgloss.Color("#A40000")
	colorMuted  = lipgloss.Color("#888888")
	colorTrack  = lipgloss.Color("#444444")
	colorText   = lipgloss.Color("#FFFFFF")
	colorGood   = lipgloss.Color("#00AA00")
	colorWarn   = lipgloss.Color("#FFA500")
)

//nolint:gochecknoglobals // styles, effectively const
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	labelStyle    = lipgloss.NewStyle().Foreground(colorMuted).Width(labelWidth)
	valueStyle    = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	trackStyle    = lipgloss.NewStyle().Foreground(colorTrack)
	errorStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// levelStyle colours a bar by how close it sits to the top of its range.
func levelStyle(position float64) lipgloss.Style {
	switch {
	case position > 0.95:
		return lipgloss.NewStyle().Foreground(colorAccent)
	case position > 0.8:
		return lipgloss.NewStyle().Foreground(colorWarn)
	default:
		return lipgloss.NewStyle().Foreground(colorGood)
	}
}
