package filter

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"treemap/internal/geom"
	"treemap/internal/region"
	"treemap/internal/trees"
)

var proj = geom.NewMercator(0, 0, 1000, 750)

func load(t *testing.T, src string) *trees.Store {
	t.Helper()
	s, _, err := trees.Load(strings.NewReader(src), proj)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

const scenario = "id,species,diameter,lon,lat\n1,oak,10,0,0\n2,pine,5,1,1\n"

func ids(recs []trees.Record) []int64 {
	out := make([]int64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestVisibleScenarios(t *testing.T) {
	s := load(t, scenario)
	placed := region.New(region.A)
	if err := placed.PlaceAt(proj.Project(0, 0), 10); err != nil {
		t.Fatal(err)
	}
	unset := region.New(region.B)

	tests := []struct {
		name  string
		a     region.Region
		attrs Attributes
		want  []int64
	}{
		{"region covers id 1", placed, Attributes{}, []int64{1}},
		{"region plus diameter > 7", placed, Attributes{DiameterEnabled: true, DiameterThreshold: 7}, []int64{1}},
		{"region reset", region.New(region.A), Attributes{}, []int64{1, 2}},
		{"reset with diameter > 7", region.New(region.A), Attributes{DiameterEnabled: true, DiameterThreshold: 7}, []int64{1}},
		{"threshold ignored when disabled", region.New(region.A), Attributes{DiameterThreshold: 100}, []int64{1, 2}},
		{"species query", region.New(region.A), Attributes{SpeciesQuery: "pi"}, []int64{2}},
		{"species query no match", region.New(region.A), Attributes{SpeciesQuery: "maple"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Visible(s, tt.a, unset, tt.attrs))
			if !equalIDs(got, tt.want) {
				t.Fatalf("Visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThresholdBoundaryExcluded(t *testing.T) {
	s := load(t, scenario)
	got := ids(Visible(s, region.New(region.A), region.New(region.B), Attributes{DiameterEnabled: true, DiameterThreshold: 10}))
	if len(got) != 0 {
		t.Fatalf("diameter equal to threshold must be excluded, got %v", got)
	}
	got = ids(Visible(s, region.New(region.A), region.New(region.B), Attributes{DiameterEnabled: true, DiameterThreshold: 9.999}))
	if !equalIDs(got, []int64{1}) {
		t.Fatalf("got %v, want [1]", got)
	}
}

func TestRegionsComposeByIntersection(t *testing.T) {
	s := load(t, "id,lon,lat\n1,0,0\n2,0.01,0\n3,0.02,0\n")
	a, b := region.New(region.A), region.New(region.B)
	p1 := proj.Project(0, 0)
	p3 := proj.Project(0.02, 0)
	// each circle reaches the middle point but not the far one
	r := geom.Distance(p1, p3) * 0.6
	_ = a.PlaceAt(p1, r)
	_ = b.PlaceAt(p3, r)
	got := ids(Visible(s, a, b, Attributes{}))
	if !equalIDs(got, []int64{2}) {
		t.Fatalf("Visible = %v, want [2]", got)
	}
}

func TestWithSpeciesLowercases(t *testing.T) {
	a := Attributes{}.WithSpecies("OAK")
	if a.SpeciesQuery != "oak" {
		t.Fatalf("query = %q", a.SpeciesQuery)
	}
	if !a.Matches(trees.Record{Species: "coast live oak"}) {
		t.Fatal("expected case-insensitive match")
	}
}

// randomStore builds n records scattered around the projection centre.
func randomStore(t *testing.T, n int, seed int64) *trees.Store {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	species := []string{"oak", "pine", "plane", "elm", "palm"}
	var b strings.Builder
	b.WriteString("id,species,diameter,lon,lat\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d,%s,%d,%f,%f\n", i, species[rng.Intn(len(species))], rng.Intn(40),
			(rng.Float64()-0.5)*20, (rng.Float64()-0.5)*20)
	}
	return load(t, b.String())
}

func randomRegion(rng *rand.Rand, id region.ID) region.Region {
	r := region.New(id)
	_ = r.PlaceAt(geom.Coord{X: 375 + (rng.Float64()-0.5)*300, Y: 375 + (rng.Float64()-0.5)*300}, rng.Float64()*150)
	return r
}

func TestVisibleMatchesSetBuilder(t *testing.T) {
	s := randomStore(t, 500, 1)
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		a, b := randomRegion(rng, region.A), randomRegion(rng, region.B)
		if i%3 == 0 {
			b.Reset()
		}
		attrs := Attributes{SpeciesQuery: []string{"", "p", "oak"}[i%3], DiameterEnabled: i%2 == 0, DiameterThreshold: float64(rng.Intn(40))}
		var want []int64
		for _, rec := range s.All() {
			p := proj.Project(rec.Lon, rec.Lat)
			if a.Contains(p) && b.Contains(p) && attrs.Matches(rec) {
				want = append(want, rec.ID)
			}
		}
		if want == nil {
			want = []int64{}
		}
		if got := ids(Visible(s, a, b, attrs)); !equalIDs(got, want) {
			t.Fatalf("iteration %d: Visible = %v, want %v", i, got, want)
		}
	}
}

func TestInactiveRegionsPassAll(t *testing.T) {
	s := randomStore(t, 200, 3)
	attrs := Attributes{SpeciesQuery: "o", DiameterEnabled: true, DiameterThreshold: 15}
	var want []int64
	for _, rec := range s.All() {
		if attrs.Matches(rec) {
			want = append(want, rec.ID)
		}
	}
	got := ids(Visible(s, region.New(region.A), region.New(region.B), attrs))
	if !equalIDs(got, want) {
		t.Fatalf("unset regions restricted the set: got %d want %d", len(got), len(want))
	}
}

func TestPlacingNeverGrowsResettingNeverShrinks(t *testing.T) {
	s := randomStore(t, 300, 4)
	rng := rand.New(rand.NewSource(5))
	attrs := Attributes{SpeciesQuery: "p"}
	for i := 0; i < 30; i++ {
		a, b := region.New(region.A), region.New(region.B)
		n0 := len(Visible(s, a, b, attrs))
		a = randomRegion(rng, region.A)
		n1 := len(Visible(s, a, b, attrs))
		b = randomRegion(rng, region.B)
		n2 := len(Visible(s, a, b, attrs))
		if n1 > n0 || n2 > n1 {
			t.Fatalf("placing grew the set: %d -> %d -> %d", n0, n1, n2)
		}
		a.Reset()
		n3 := len(Visible(s, a, b, attrs))
		if n3 < n2 {
			t.Fatalf("resetting shrank the set: %d -> %d", n2, n3)
		}
	}
}

func TestSpeciesFilterIdempotent(t *testing.T) {
	s := randomStore(t, 200, 6)
	attrs := Attributes{SpeciesQuery: "pa"}
	once := Visible(s, region.New(region.A), region.New(region.B), attrs)
	var twice []trees.Record
	for _, rec := range once {
		if attrs.Matches(rec) {
			twice = append(twice, rec)
		}
	}
	if !equalIDs(ids(once), ids(twice)) {
		t.Fatal("filtering twice changed the result")
	}
}

func TestVisibleEmptyStore(t *testing.T) {
	s := load(t, "id,lon,lat\n")
	a := region.New(region.A)
	_ = a.PlaceAt(geom.Coord{X: 1, Y: 1}, 10)
	if got := Visible(s, a, region.New(region.B), Attributes{}); got == nil || len(got) != 0 {
		t.Fatalf("Visible on empty store = %v", got)
	}
}

func TestVisibleWithUnprojectableLatitude(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,species,diameter,lon,lat\n")
	n := 0
	for x := 0; x < 20; x++ {
		for y := 0; y < 10; y++ {
			n++
			fmt.Fprintf(&b, "%d,oak,5,%f,%f\n", n, float64(x)*0.01, float64(y)*0.01)
		}
	}
	b.WriteString("999,oak,1,0,100\n")
	s := load(t, b.String())

	a := region.New(region.A)
	if err := a.PlaceAt(proj.Project(0.05, 0.05), 0.5); err != nil {
		t.Fatal(err)
	}
	var want []int64
	for _, rec := range s.All() {
		if a.Contains(proj.Project(rec.Lon, rec.Lat)) {
			want = append(want, rec.ID)
		}
	}
	got := ids(Visible(s, a, region.New(region.B), Attributes{}))
	if len(want) == 0 || !equalIDs(got, want) {
		t.Fatalf("Visible = %d points %v, want %d %v", len(got), got, len(want), want)
	}

	all := ids(Visible(s, region.New(region.A), region.New(region.B), Attributes{}))
	if len(all) != n+1 {
		t.Fatalf("without regions the row stays visible: got %d, want %d", len(all), n+1)
	}
}
