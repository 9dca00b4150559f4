package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Coord is a position in projected pixel space (x grows east, y grows south).
type Coord struct {
	X float64
	Y float64
}

func (c Coord) point() orb.Point { return orb.Point{c.X, c.Y} }

// Distance returns the Euclidean distance between two projected coordinates.
func Distance(p1, p2 Coord) float64 {
	return planar.Distance(p1.point(), p2.point())
}

// Circle is a closed disc in projected space.
type Circle struct {
	Center Coord
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Coord) bool {
	return Distance(p, c.Center) <= c.Radius
}

// Bounds returns the axis-aligned square enclosing the circle.
func (c Circle) Bounds() BBox {
	return BBox{
		MinX: c.Center.X - c.Radius,
		MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius,
		MaxY: c.Center.Y + c.Radius,
	}
}

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Intersects reports whether the two closed boxes overlap.
func (b BBox) Intersects(o BBox) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Extend grows b to cover (x, y). first marks the initial point.
func (b BBox) Extend(x, y float64, first bool) BBox {
	if first {
		return BBox{MinX: x, MinY: y, MaxX: x, MaxY: y}
	}
	if x < b.MinX {
		b.MinX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y > b.MaxY {
		b.MaxY = y
	}
	return b
}

// Contains reports whether (x, y) lies inside or on the box.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Data is a minimal geometry container for the base map underlay, in lon/lat.
type Data struct {
	Points   []orb.Point
	Lines    []orb.LineString
	Polygons []orb.Polygon // rings: first outer, following holes
	BBox     BBox
}

// Empty reports whether d holds no geometry.
func (d Data) Empty() bool {
	return len(d.Points) == 0 && len(d.Lines) == 0 && len(d.Polygons) == 0
}

// add folds one orb geometry into d, flattening multi-geometries and collections.
func (d *Data) add(g orb.Geometry) {
	first := d.Empty()
	switch g := g.(type) {
	case orb.Point:
		d.Points = append(d.Points, g)
	case orb.MultiPoint:
		d.Points = append(d.Points, g...)
	case orb.LineString:
		d.Lines = append(d.Lines, g)
	case orb.MultiLineString:
		for _, ls := range g {
			d.Lines = append(d.Lines, ls)
		}
	case orb.Ring:
		d.Polygons = append(d.Polygons, orb.Polygon{g})
	case orb.Polygon:
		d.Polygons = append(d.Polygons, g)
	case orb.MultiPolygon:
		for _, p := range g {
			d.Polygons = append(d.Polygons, p)
		}
	case orb.Collection:
		for _, sub := range g {
			d.add(sub)
		}
		return
	default:
		return
	}
	d.fitBound(g.Bound(), first)
}

func (d *Data) fitBound(b orb.Bound, first bool) {
	d.BBox = d.BBox.Extend(b.Min[0], b.Min[1], first)
	d.BBox = d.BBox.Extend(b.Max[0], b.Max[1], false)
}
