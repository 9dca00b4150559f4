package render

import (
	"fmt"

	"treemap/internal/geom"
	"treemap/internal/trees"
)

// Marker is the displayed glyph for one record.
type Marker struct {
	Record trees.Record
	Pos    geom.Coord
}

// Diff reports one reconciliation pass.
type Diff struct {
	Entered int
	Exited  int
	Kept    int
}

// Layer is the keyed marker set for the map. Markers are keyed by record id
// and survive re-renders for as long as their record stays visible.
type Layer struct {
	proj    geom.Projector
	total   int
	markers map[int64]*Marker
	order   []*Marker // visible order of the last render
}

// NewLayer returns an empty layer for a dataset of total records.
func NewLayer(proj geom.Projector, total int) *Layer {
	return &Layer{proj: proj, total: total, markers: make(map[int64]*Marker)}
}

// Render replaces the displayed set with visible: entering markers are
// created, exiting ones removed, the rest updated in place.
func (l *Layer) Render(visible []trees.Record) Diff {
	var d Diff
	next := make(map[int64]*Marker, len(visible))
	order := make([]*Marker, 0, len(visible))
	for _, rec := range visible {
		if _, dup := next[rec.ID]; dup {
			continue
		}
		mk, ok := l.markers[rec.ID]
		if ok {
			d.Kept++
		} else {
			mk = &Marker{}
			d.Entered++
		}
		mk.Record = rec
		mk.Pos = l.proj.Project(rec.Lon, rec.Lat)
		next[rec.ID] = mk
		order = append(order, mk)
	}
	for id := range l.markers {
		if _, ok := next[id]; !ok {
			d.Exited++
		}
	}
	l.markers = next
	l.order = order
	return d
}

// Markers returns the displayed markers in visible order.
func (l *Layer) Markers() []*Marker { return l.order }

// Marker returns the displayed marker for id, if any.
func (l *Layer) Marker(id int64) (*Marker, bool) {
	mk, ok := l.markers[id]
	return mk, ok
}

func (l *Layer) Len() int   { return len(l.order) }
func (l *Layer) Total() int { return l.total }

// Readout is the count line for the last render.
func (l *Layer) Readout() string { return Readout(len(l.order), l.total) }

// Readout formats the visible count against the dataset size.
func Readout(visible, total int) string {
	return fmt.Sprintf("%d / %d total points displayed", visible, total)
}
