package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	mapLineFg = lipgloss.Color("#374151")
	treeFg    = lipgloss.Color("#22C55E")
	regionAFg = lipgloss.Color("#F59E0B")
	regionBFg = lipgloss.Color("#38BDF8")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)

	plainStyle   = lipgloss.NewStyle()
	basemapStyle = lipgloss.NewStyle().Foreground(mapLineFg)
	markerStyle  = lipgloss.NewStyle().Foreground(treeFg)
	regionAStyle = lipgloss.NewStyle().Foreground(regionAFg)
	regionBStyle = lipgloss.NewStyle().Foreground(regionBFg)
	readoutStyle = lipgloss.NewStyle().Foreground(baseFg).Bold(true)
)
