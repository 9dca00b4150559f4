package region

import "treemap/internal/geom"

// Pair holds regions A and B.
type Pair struct {
	A Region
	B Region
}

func NewPair() Pair {
	return Pair{A: New(A), B: New(B)}
}

// Get returns a pointer to the region with the given id, or nil.
func (p *Pair) Get(id ID) *Region {
	switch id {
	case A:
		return &p.A
	case B:
		return &p.B
	default:
		return nil
	}
}

// PlaceNext places the first unset region in priority order A, then B, using
// the matching default radius. It returns ErrNoFreeRegion when both are placed.
func (p *Pair) PlaceNext(c geom.Coord, radiusA, radiusB float64) (ID, error) {
	switch {
	case !p.A.placed:
		return A, p.A.PlaceAt(c, radiusA)
	case !p.B.placed:
		return B, p.B.PlaceAt(c, radiusB)
	default:
		return 0, ErrNoFreeRegion
	}
}

// Contains reports whether c passes both regions.
func (p Pair) Contains(c geom.Coord) bool {
	return p.A.Contains(c) && p.B.Contains(c)
}
