package geom

import "math"

// Projector maps lon/lat degrees into projected pixel space and back.
type Projector interface {
	Project(lon, lat float64) Coord
	Invert(c Coord) (lon, lat float64)
}

// Mercator is a spherical Mercator projection centred on Center (lon, lat),
// scaled by Scale pixels per radian, with the centre drawn at Translate.
type Mercator struct {
	CenterLon float64
	CenterLat float64
	Scale     float64
	Translate Coord
}

// NewMercator returns a projection that centres (lon, lat) on a square canvas
// of the given size.
func NewMercator(lon, lat, scale, canvas float64) Mercator {
	return Mercator{
		CenterLon: lon,
		CenterLat: lat,
		Scale:     scale,
		Translate: Coord{X: canvas / 2, Y: canvas / 2},
	}
}

func mercatorRaw(lon, lat float64) (float64, float64) {
	lambda := lon * math.Pi / 180
	phi := lat * math.Pi / 180
	return lambda, math.Log(math.Tan((math.Pi/2 + phi) / 2))
}

func (m Mercator) Project(lon, lat float64) Coord {
	cx, cy := mercatorRaw(m.CenterLon, m.CenterLat)
	rx, ry := mercatorRaw(lon, lat)
	return Coord{
		X: m.Translate.X + m.Scale*(rx-cx),
		Y: m.Translate.Y - m.Scale*(ry-cy),
	}
}

func (m Mercator) Invert(c Coord) (float64, float64) {
	if m.Scale == 0 {
		return m.CenterLon, m.CenterLat
	}
	cx, cy := mercatorRaw(m.CenterLon, m.CenterLat)
	rx := (c.X-m.Translate.X)/m.Scale + cx
	ry := (m.Translate.Y-c.Y)/m.Scale + cy
	lon := rx * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(ry)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}
