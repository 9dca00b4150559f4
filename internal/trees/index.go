package trees

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"treemap/internal/geom"
)

// pointEpsilon gives point entries a non-zero box; rtreego rejects zero lengths.
const pointEpsilon = 1e-6

// spatialIndex is an R-tree over projected record positions. Records whose
// projection is not finite (latitudes beyond the poles) stay out of the tree
// and are returned as candidates for every query.
type spatialIndex struct {
	rtree     *rtreego.Rtree
	unindexed []int
}

// indexedRecord wraps a record position for R-tree storage.
type indexedRecord struct {
	idx int
	pos geom.Coord
}

// Bounds implements rtreego.Spatial.
func (r *indexedRecord) Bounds() rtreego.Rect {
	return rtreego.Point{r.pos.X, r.pos.Y}.ToRect(pointEpsilon)
}

func buildIndex(records []Record, proj geom.Projector) *spatialIndex {
	if proj == nil || len(records) == 0 {
		return nil
	}
	idx := &spatialIndex{}
	objs := make([]rtreego.Spatial, 0, len(records))
	for i, rec := range records {
		pos := proj.Project(rec.Lon, rec.Lat)
		if !finite(pos.X) || !finite(pos.Y) {
			idx.unindexed = append(idx.unindexed, i)
			continue
		}
		objs = append(objs, &indexedRecord{idx: i, pos: pos})
	}
	idx.rtree = rtreego.NewTree(2, 25, 50, objs...)
	return idx
}

// Candidates returns the load-order positions of records whose projected
// position falls inside the circle's bounding square. ok is false when the
// store has no index, in which case callers scan everything.
func (s *Store) Candidates(c geom.Circle) (set map[int]struct{}, ok bool) {
	if s == nil || s.index == nil || s.index.rtree == nil {
		return nil, false
	}
	b := c.Bounds()
	side := 2*c.Radius + 2*pointEpsilon
	query, err := rtreego.NewRect(rtreego.Point{b.MinX - pointEpsilon, b.MinY - pointEpsilon}, []float64{side, side})
	if err != nil {
		return nil, false
	}
	hits := s.index.rtree.SearchIntersect(query)
	set = make(map[int]struct{}, len(hits)+len(s.index.unindexed))
	for _, h := range hits {
		set[h.(*indexedRecord).idx] = struct{}{}
	}
	for _, i := range s.index.unindexed {
		set[i] = struct{}{}
	}
	return set, true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
