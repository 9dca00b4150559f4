package filter

import (
	"strings"

	"treemap/internal/region"
	"treemap/internal/trees"
)

// Attributes is the non-spatial filter state.
type Attributes struct {
	SpeciesQuery      string
	DiameterThreshold float64
	DiameterEnabled   bool
}

// WithSpecies returns a copy with the query normalized to lower case.
func (a Attributes) WithSpecies(q string) Attributes {
	a.SpeciesQuery = strings.ToLower(q)
	return a
}

// Matches applies the diameter and species predicates only.
func (a Attributes) Matches(r trees.Record) bool {
	if a.DiameterEnabled && !(r.Diameter > a.DiameterThreshold) {
		return false
	}
	return strings.Contains(r.Species, a.SpeciesQuery)
}

// Visible returns the records passing both regions and the attribute filter,
// in load order. Placed regions prune through the store's spatial index; the
// exact containment test against the projected position still decides.
func Visible(store *trees.Store, a, b region.Region, attrs Attributes) []trees.Record {
	all := store.All()
	if len(all) == 0 {
		return []trees.Record{}
	}
	candidates := narrow(store, a, b)
	proj := store.Projector()
	regions := region.Pair{A: a, B: b}
	out := make([]trees.Record, 0, len(all))
	for i, rec := range all {
		if candidates != nil {
			if _, ok := candidates[i]; !ok {
				continue
			}
		}
		if !attrs.Matches(rec) {
			continue
		}
		if a.Active() || b.Active() {
			p := proj.Project(rec.Lon, rec.Lat)
			if !regions.Contains(p) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// narrow intersects index candidates of the placed regions. nil means no pruning.
func narrow(store *trees.Store, regions ...region.Region) map[int]struct{} {
	var set map[int]struct{}
	for _, r := range regions {
		c, ok := r.Circle()
		if !ok {
			continue
		}
		hits, indexed := store.Candidates(c)
		if !indexed {
			return nil
		}
		if set == nil {
			set = hits
			continue
		}
		for i := range set {
			if _, ok := hits[i]; !ok {
				delete(set, i)
			}
		}
	}
	return set
}
