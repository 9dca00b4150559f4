package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"treemap/internal/region"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	_, _, mapWidth, mapHeight := m.layout()
	contentWidth := max(10, m.width)

	// Header
	header := titleStyle.Render(" treemap ─ street tree explorer ")
	if m.dataSel != "" {
		header += dimStyle.Render(" " + filepath.Base(m.dataSel))
	}
	if m.species.Focused() || m.species.Value() != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", m.species.View())
	}
	header = lipgloss.NewStyle().Width(contentWidth).MaxHeight(1).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Height(mapHeight).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(max(1, min(mapHeight-4, 20)))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.inspectPopup != "":
		box := boxStyle.MaxWidth(min(48, mapWidth)).Render(m.inspectPopup)
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Left, lipgloss.Center, box)
	default:
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderMap(m.viewport()))
	}

	var body string
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	} else {
		body = mapView
	}

	// Footer: readout, filters and pointer position on the first line, help below
	readout := readoutStyle.Render(" " + m.ctrl.Readout() + " ")
	filters := dimStyle.Render(" " + m.filterSummary() + " ")
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hovering {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, readout, filters, status)
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	line1 := lipgloss.NewStyle().Width(contentWidth).MaxHeight(1).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))
	line2 := lipgloss.NewStyle().Width(contentWidth).MaxHeight(1).Render(m.renderHelp())

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, line1, line2)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) filterSummary() string {
	var parts []string
	for _, id := range []region.ID{region.A, region.B} {
		r := m.ctrl.Region(id)
		if r.Active() {
			parts = append(parts, fmt.Sprintf("%s r=%.0f", id, r.Radius()))
		} else {
			parts = append(parts, fmt.Sprintf("%s off (r=%.0f)", id, m.ctrl.Radius(id)))
		}
	}
	a := m.ctrl.Attrs()
	if a.DiameterEnabled {
		parts = append(parts, fmt.Sprintf("diameter > %g", a.DiameterThreshold))
	}
	if a.SpeciesQuery != "" {
		parts = append(parts, fmt.Sprintf("species ~ %q", a.SpeciesQuery))
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"click place",
		"drag move/resize",
		"[/] radius A",
		"{/} radius B",
	}
	// remove controls exist only while their region does
	if m.ctrl.CanRemove(region.A) {
		keys = append(keys, "A remove A")
	}
	if m.ctrl.CanRemove(region.B) {
		keys = append(keys, "B remove B")
	}
	keys = append(keys,
		"/ species",
		"d diameter",
		",/. threshold",
		"t table",
		"i inspect",
		"Tab files",
		"+/- zoom",
		"h help",
		"q quit",
	)
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
