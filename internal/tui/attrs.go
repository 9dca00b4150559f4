package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
)

func attrColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "id", Width: 8},
		{Title: "species", Width: 24},
		{Title: "diameter", Width: 8},
		{Title: "lon", Width: 11},
		{Title: "lat", Width: 10},
	}
}

// refreshAttrs fills the table with the currently displayed trees.
func (m *Model) refreshAttrs() {
	markers := m.ctrl.Layer().Markers()
	if len(markers) == 0 {
		m.showAttrs = false
		m.status = "no trees displayed"
		return
	}
	rows := make([]table.Row, 0, len(markers))
	for i, mk := range markers {
		r := mk.Record
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.ID),
			truncate(r.Species, 24),
			fmt.Sprintf("%g", r.Diameter),
			fmt.Sprintf("%.6f", r.Lon),
			fmt.Sprintf("%.6f", r.Lat),
		})
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(attrColumns())
	m.tbl.SetRows(rows)
	m.tbl.GotoTop()
	m.status = fmt.Sprintf("table: %d trees", len(rows))
}
