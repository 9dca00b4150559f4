package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"treemap/internal/geom"
	"treemap/internal/region"
)

// viewport maps projected canvas coordinates onto the braille microgrid of a
// w x h cell map area. Zoom is about the canvas centre, offsets are in cells.
type viewport struct {
	canvas  float64
	zoom    float64
	offsetX int
	offsetY int
	w, h    int
}

// scale is micro-pixels per canvas unit. Braille micro-pixels are roughly
// square, so one factor serves both axes.
func (v viewport) scale() float64 {
	if v.canvas <= 0 {
		return 0
	}
	return v.zoom * float64(min(v.w*2, v.h*4)) / v.canvas
}

// toMicro maps a canvas coordinate to micro coords (2x4 per cell).
func (v viewport) toMicro(c geom.Coord) (int, int) {
	k := v.scale()
	mx := float64(v.w) + (c.X-v.canvas/2)*k
	my := float64(v.h*2) + (c.Y-v.canvas/2)*k
	return int(math.Floor(mx)) + v.offsetX*2, int(math.Floor(my)) + v.offsetY*4
}

// fromMicro is the inverse of toMicro before flooring.
func (v viewport) fromMicro(mx, my float64) geom.Coord {
	k := v.scale()
	if k == 0 {
		return geom.Coord{X: v.canvas / 2, Y: v.canvas / 2}
	}
	dx := mx - float64(v.offsetX*2) - float64(v.w)
	dy := my - float64(v.offsetY*4) - float64(v.h*2)
	return geom.Coord{X: dx/k + v.canvas/2, Y: dy/k + v.canvas/2}
}

// fromCell returns the canvas coordinate under the centre of a map cell.
func (v viewport) fromCell(cx, cy int) geom.Coord {
	return v.fromMicro(float64(cx*2+1), float64(cy*4+2))
}

// bounds is the canvas area covered by the map.
func (v viewport) bounds() geom.BBox {
	lo := v.fromMicro(0, 0)
	hi := v.fromMicro(float64(v.w*2), float64(v.h*4))
	return geom.BBox{MinX: lo.X, MinY: lo.Y, MaxX: hi.X, MaxY: hi.Y}
}

// toCell maps a canvas coordinate to the map cell that displays it.
func (v viewport) toCell(c geom.Coord) (int, int) {
	mx, my := v.toMicro(c)
	return floorDiv(mx, 2), floorDiv(my, 4)
}

// tolerance is the hit radius in canvas units, about two cells wide.
func (v viewport) tolerance() float64 {
	k := v.scale()
	if k == 0 {
		return 0
	}
	return 4 / k
}

// cell kinds, in increasing draw priority
const (
	cellEmpty = iota
	cellBase
	cellRegionB
	cellRegionA
	cellMarker
	cellLabel
)

type cell struct {
	kind  int
	style lipgloss.Style
	r     rune
}

func (m Model) renderMap(vp viewport) string {
	base := newBrailleBuf(vp.w, vp.h)
	data := newBrailleBuf(vp.w, vp.h)
	if m.underlayVisible(vp) {
		m.drawUnderlay(base, vp)
	}
	for _, mk := range m.ctrl.Layer().Markers() {
		data.setPixel(vp.toMicro(mk.Pos))
	}

	grid := make([][]cell, vp.h)
	for y := range grid {
		grid[y] = make([]cell, vp.w)
		for x := range grid[y] {
			switch {
			case data.m[y][x] != 0:
				grid[y][x] = cell{cellMarker, markerStyle, data.glyph(x, y)}
			case base.m[y][x] != 0:
				grid[y][x] = cell{cellBase, basemapStyle, base.glyph(x, y)}
			default:
				grid[y][x] = cell{cellEmpty, plainStyle, ' '}
			}
		}
	}

	for _, id := range []region.ID{region.A, region.B} {
		c, ok := m.ctrl.Region(id).Circle()
		if !ok {
			continue
		}
		kind, st := cellRegionA, regionAStyle
		if id == region.B {
			kind, st = cellRegionB, regionBStyle
		}
		ring := newBrailleBuf(vp.w, vp.h)
		drawCircle(ring, vp, c)
		for y := range grid {
			for x := range grid[y] {
				if ring.m[y][x] != 0 && grid[y][x].kind < kind {
					grid[y][x] = cell{kind, st, ring.glyph(x, y)}
				}
			}
		}
		put := func(x, y int, r rune, style lipgloss.Style) {
			if y >= 0 && y < vp.h && x >= 0 && x < vp.w {
				grid[y][x] = cell{cellLabel, style, r}
			}
		}
		cx, cy := vp.toCell(c.Center)
		if hx, hy := vp.toCell(geom.Coord{X: c.Center.X + c.Radius, Y: c.Center.Y}); hx != cx || hy != cy {
			put(hx, hy, '◆', st)
		}
		put(cx, cy, []rune(id.String())[0], st.Bold(true))
	}

	lines := make([]string, vp.h)
	for y, row := range grid {
		var sb strings.Builder
		var runes []rune
		kind := -1
		var st lipgloss.Style
		for _, c := range row {
			if (c.kind != kind || kind == cellLabel) && len(runes) > 0 {
				sb.WriteString(st.Render(string(runes)))
				runes = runes[:0]
			}
			kind, st = c.kind, c.style
			runes = append(runes, c.r)
		}
		if len(runes) > 0 {
			sb.WriteString(st.Render(string(runes)))
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// underlayVisible reports whether the base map's projected bounding box
// overlaps the map area.
func (m Model) underlayVisible(vp viewport) bool {
	if m.basemap.Empty() {
		return false
	}
	proj := m.ctrl.Store().Projector()
	if proj == nil {
		return false
	}
	bb := m.basemap.BBox
	lo := proj.Project(bb.MinX, bb.MinY)
	hi := proj.Project(bb.MaxX, bb.MaxY)
	var box geom.BBox
	box = box.Extend(lo.X, lo.Y, true)
	box = box.Extend(hi.X, hi.Y, false)
	return box.Intersects(vp.bounds())
}

// drawUnderlay draws base-map outlines and points into b.
func (m Model) drawUnderlay(b *brailleBuf, vp viewport) {
	proj := m.ctrl.Store().Projector()
	project := func(p [2]float64) (int, int) {
		return vp.toMicro(proj.Project(p[0], p[1]))
	}
	for _, poly := range m.basemap.Polygons {
		for _, ring := range poly {
			for i := 0; i+1 < len(ring); i++ {
				x0, y0 := project(ring[i])
				x1, y1 := project(ring[i+1])
				b.drawLineMicro(x0, y0, x1, y1)
			}
		}
	}
	for _, ls := range m.basemap.Lines {
		for i := 0; i+1 < len(ls); i++ {
			x0, y0 := project(ls[i])
			x1, y1 := project(ls[i+1])
			b.drawLineMicro(x0, y0, x1, y1)
		}
	}
	view := vp.bounds()
	for _, p := range m.basemap.Points {
		if c := proj.Project(p[0], p[1]); view.Contains(c.X, c.Y) {
			b.setPixel(vp.toMicro(c))
		}
	}
}

func drawCircle(b *brailleBuf, vp viewport, c geom.Circle) {
	k := vp.scale()
	rMicro := c.Radius * k
	n := min(max(16, int(2*math.Pi*rMicro)), maxCircleSamples(vp))
	px, py := vp.toMicro(geom.Coord{X: c.Center.X + c.Radius, Y: c.Center.Y})
	for i := 1; i <= n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		x, y := vp.toMicro(geom.Coord{
			X: c.Center.X + c.Radius*math.Cos(t),
			Y: c.Center.Y + c.Radius*math.Sin(t),
		})
		b.drawLineMicro(px, py, x, y)
		px, py = x, y
	}
}

// maxCircleSamples bounds circle sampling by the microgrid perimeter; segment
// endpoints beyond it are no longer distinct pixels on screen.
func maxCircleSamples(vp viewport) int {
	return max(16, 2*(vp.w*2+vp.h*4))
}
