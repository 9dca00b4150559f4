// Package region models the two user-placed circular spatial filters.
//
// A region is either unset, imposing no restriction, or placed with a centre
// and a non-negative radius. Regions are plain values; drawing them is the
// caller's business.
package region

import (
	"errors"
	"fmt"
	"math"

	"treemap/internal/geom"
)

var (
	ErrAlreadyPlaced = errors.New("region already placed")
	ErrNotPlaced     = errors.New("region not placed")
	ErrNoFreeRegion  = errors.New("both regions placed")
)

// ID names one of the two regions.
type ID int

const (
	A ID = iota
	B
)

func (id ID) String() string {
	switch id {
	case A:
		return "A"
	case B:
		return "B"
	default:
		return fmt.Sprintf("ID(%d)", int(id))
	}
}

// State is the lifecycle state of a region.
type State int

const (
	Unset State = iota
	Placed
)

func (s State) String() string {
	if s == Placed {
		return "placed"
	}
	return "unset"
}

// Region is one circular filter. The zero value is an unset region.
type Region struct {
	ID     ID
	center geom.Coord
	radius float64
	placed bool
}

// New returns an unset region.
func New(id ID) Region { return Region{ID: id} }

func (r Region) State() State {
	if r.placed {
		return Placed
	}
	return Unset
}

// Active reports whether the region has a centre and so restricts points.
func (r Region) Active() bool { return r.placed }

// Center returns the centre; ok is false while unset.
func (r Region) Center() (c geom.Coord, ok bool) { return r.center, r.placed }

// Radius is 0 while unset.
func (r Region) Radius() float64 { return r.radius }

// Circle returns the region's disc; ok is false while unset.
func (r Region) Circle() (geom.Circle, bool) {
	return geom.Circle{Center: r.center, Radius: r.radius}, r.placed
}

// Contains reports whether p passes this region's filter. An unset region
// passes every point.
func (r Region) Contains(p geom.Coord) bool {
	if !r.placed {
		return true
	}
	return geom.Distance(p, r.center) <= r.radius
}

// PlaceAt sets the centre and initial radius of an unset region.
func (r *Region) PlaceAt(c geom.Coord, radius float64) error {
	if r.placed {
		return fmt.Errorf("place %s: %w", r.ID, ErrAlreadyPlaced)
	}
	r.center = c
	r.radius = clampRadius(radius)
	r.placed = true
	return nil
}

// Resize sets the radius of a placed region; negative values clamp to 0.
func (r *Region) Resize(radius float64) error {
	if !r.placed {
		return fmt.Errorf("resize %s: %w", r.ID, ErrNotPlaced)
	}
	r.radius = clampRadius(radius)
	return nil
}

// Drag moves the centre of a placed region.
func (r *Region) Drag(c geom.Coord) error {
	if !r.placed {
		return fmt.Errorf("drag %s: %w", r.ID, ErrNotPlaced)
	}
	r.center = c
	return nil
}

// Reset returns the region to unset and reports whether anything changed.
func (r *Region) Reset() bool {
	changed := r.placed
	r.center = geom.Coord{}
	r.radius = 0
	r.placed = false
	return changed
}

func clampRadius(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
