package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"treemap/internal/geom"
	"treemap/internal/logging"
	"treemap/internal/region"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		_, _, _, h := m.layout()
		m.l.SetSize(sidebarWidth-2, h-2)
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.species.Focused() {
			return m.updateSpecies(msg)
		}
		if m.showAttrs {
			switch msg.String() {
			case "t", "esc":
				m.showAttrs = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		return m.updateKey(msg)
	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSpecies(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.species.Blur()
		m.status = fmt.Sprintf("species filter: %q", m.ctrl.Attrs().SpeciesQuery)
		return m, nil
	}
	before := m.species.Value()
	var cmd tea.Cmd
	m.species, cmd = m.species.Update(msg)
	if v := m.species.Value(); v != before {
		m.ctrl.SetSpecies(v)
	}
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.inspectPopup = ""
		m.status = "type to filter species; enter to finish"
		cmd := m.species.Focus()
		return m, cmd
	case "d":
		m.ctrl.ToggleDiameterFilter()
		m.status = m.diameterStatus()
	case ",", "<":
		m.ctrl.SetDiameterThreshold(m.ctrl.Attrs().DiameterThreshold - m.opts.DiameterStep)
		m.status = m.diameterStatus()
	case ".", ">":
		m.ctrl.SetDiameterThreshold(m.ctrl.Attrs().DiameterThreshold + m.opts.DiameterStep)
		m.status = m.diameterStatus()
	case "[":
		m.stepRadius(region.A, -1)
	case "]":
		m.stepRadius(region.A, 1)
	case "{":
		m.stepRadius(region.B, -1)
	case "}":
		m.stepRadius(region.B, 1)
	case "A":
		m.remove(region.A)
	case "B":
		m.remove(region.B)
	case "+", "=":
		m.zoomBy(1.2)
	case "-", "_":
		m.zoomBy(1 / 1.2)
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			_, _, _, h := m.layout()
			m.l.SetSize(sidebarWidth-2, h-2)
		}
	case "h":
		m.helpVisible = !m.helpVisible
	case "t":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case "i":
		if m.inspectPopup != "" {
			m.inspectPopup = ""
			break
		}
		m.inspect()
	case "esc":
		m.inspectPopup = ""
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
		}
	case "up":
		m.offsetY -= 1
	case "down":
		m.offsetY += 1
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	pos, inMap := m.mapPos(msg.X, msg.Y)
	m.hovering = inMap
	if inMap {
		m.hoverPos = pos
		if proj := m.ctrl.Store().Projector(); proj != nil {
			m.hoverLon, m.hoverLat = proj.Invert(pos)
		}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.zoomBy(1.2)
			return
		case tea.MouseButtonWheelDown:
			m.zoomBy(1 / 1.2)
			return
		case tea.MouseButtonLeft:
		default:
			return
		}
		if !inMap {
			return
		}
		if id, mode, ok := m.hitRegion(pos); ok {
			m.drag, m.dragID = mode, id
			return
		}
		if m.ctrl.Click(pos) {
			m.status = "region placed"
		} else {
			m.status = "both regions placed; remove one with A or B"
		}
	case tea.MouseActionMotion:
		if m.drag == dragNone || !inMap {
			return
		}
		switch m.drag {
		case dragCenter:
			m.ctrl.DragCenter(m.dragID, pos)
		case dragHandle:
			m.ctrl.DragHandle(m.dragID, pos)
			m.status = fmt.Sprintf("radius %s: %.0f", m.dragID, m.ctrl.Radius(m.dragID))
		}
	case tea.MouseActionRelease:
		if m.drag != dragNone {
			r := m.ctrl.Region(m.dragID)
			ctr, _ := r.Center()
			m.log.Debug("gesture ended", logging.String("region", m.dragID.String()),
				logging.Float("x", ctr.X), logging.Float("y", ctr.Y), logging.Float("radius", r.Radius()))
		}
		m.drag = dragNone
	}
}

// hitRegion finds the region centre or resize handle under pos, preferring
// whichever is nearer. A handle wins ties so zero-radius regions can grow.
func (m Model) hitRegion(pos geom.Coord) (region.ID, dragMode, bool) {
	tol := m.viewport().tolerance()
	hid, hok := m.ctrl.HandleAt(pos, tol)
	cid, cok := m.ctrl.RegionAt(pos, tol)
	switch {
	case hok && cok:
		h, _ := m.ctrl.Handle(hid)
		c, _ := m.ctrl.Region(cid).Center()
		if geom.Distance(pos, h) <= geom.Distance(pos, c) {
			return hid, dragHandle, true
		}
		return cid, dragCenter, true
	case hok:
		return hid, dragHandle, true
	case cok:
		return cid, dragCenter, true
	}
	return 0, dragNone, false
}

func (m *Model) stepRadius(id region.ID, dir float64) {
	m.ctrl.SetRadius(id, m.ctrl.Radius(id)+dir*m.opts.RadiusStep)
	m.status = fmt.Sprintf("radius %s: %.0f", id, m.ctrl.Radius(id))
}

func (m *Model) remove(id region.ID) {
	if m.ctrl.Remove(id) {
		m.status = "region " + id.String() + " removed"
	}
}

func (m *Model) zoomBy(f float64) {
	z := m.zoom * f
	if z > 64 || z < 0.05 {
		return
	}
	m.zoom = z
	m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
}

func (m Model) diameterStatus() string {
	a := m.ctrl.Attrs()
	if !a.DiameterEnabled {
		return "diameter filter off"
	}
	return fmt.Sprintf("diameter > %g", a.DiameterThreshold)
}

// inspect describes the visible tree nearest the pointer, or the map centre
// when the pointer is elsewhere.
func (m *Model) inspect() {
	target := geom.Coord{X: m.opts.Canvas / 2, Y: m.opts.Canvas / 2}
	if m.hovering {
		target = m.hoverPos
	}
	markers := m.ctrl.Layer().Markers()
	if len(markers) == 0 {
		m.status = "no trees displayed"
		return
	}
	best := markers[0]
	bestD := geom.Distance(best.Pos, target)
	for _, mk := range markers[1:] {
		if d := geom.Distance(mk.Pos, target); d < bestD {
			best, bestD = mk, d
		}
	}
	rec := best.Record
	var in []string
	for _, id := range []region.ID{region.A, region.B} {
		if r := m.ctrl.Region(id); r.Active() && r.Contains(best.Pos) {
			in = append(in, id.String())
		}
	}
	regions := "none placed"
	if len(in) > 0 {
		regions = strings.Join(in, ", ")
	}
	meta := []string{
		fmt.Sprintf("tree: %d", rec.ID),
		fmt.Sprintf("species: %s", truncate(rec.Species, 40)),
		fmt.Sprintf("diameter: %g", rec.Diameter),
		fmt.Sprintf("lon=%.6f lat=%.6f", rec.Lon, rec.Lat),
		fmt.Sprintf("inside: %s", regions),
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}
