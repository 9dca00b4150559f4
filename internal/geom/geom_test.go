package geom

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		want float64
	}{
		{"same point", Coord{1, 1}, Coord{1, 1}, 0},
		{"3-4-5", Coord{0, 0}, Coord{3, 4}, 5},
		{"negative", Coord{-1, -1}, Coord{2, 3}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Distance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCircleContainsBoundary(t *testing.T) {
	c := Circle{Center: Coord{10, 10}, Radius: 5}
	if !c.Contains(Coord{15, 10}) {
		t.Fatal("point on the rim should be contained")
	}
	if c.Contains(Coord{15.001, 10}) {
		t.Fatal("point just outside should not be contained")
	}
	zero := Circle{Center: Coord{1, 2}}
	if !zero.Contains(Coord{1, 2}) {
		t.Fatal("zero radius must contain its exact centre")
	}
	if zero.Contains(Coord{1, 2.1}) {
		t.Fatal("zero radius must contain nothing else")
	}
}

func TestCircleBounds(t *testing.T) {
	b := Circle{Center: Coord{10, 20}, Radius: 3}.Bounds()
	want := BBox{MinX: 7, MinY: 17, MaxX: 13, MaxY: 23}
	if b != want {
		t.Fatalf("Bounds = %+v, want %+v", b, want)
	}
}

func TestMercatorCentreAndRoundTrip(t *testing.T) {
	m := NewMercator(-122.433701, 37.767683, 225000, 750)
	c := m.Project(-122.433701, 37.767683)
	if math.Abs(c.X-375) > 1e-6 || math.Abs(c.Y-375) > 1e-6 {
		t.Fatalf("centre projected to %+v, want canvas middle", c)
	}
	for _, p := range [][2]float64{{-122.45, 37.78}, {-122.40, 37.75}, {-122.5, 37.7}} {
		lon, lat := m.Invert(m.Project(p[0], p[1]))
		if math.Abs(lon-p[0]) > 1e-9 || math.Abs(lat-p[1]) > 1e-9 {
			t.Fatalf("round trip %v -> (%v, %v)", p, lon, lat)
		}
	}
}

func TestMercatorOrientation(t *testing.T) {
	m := NewMercator(0, 0, 1000, 750)
	east := m.Project(1, 0)
	north := m.Project(0, 1)
	if east.X <= 375 {
		t.Fatalf("east should project right of centre, got %+v", east)
	}
	if north.Y >= 375 {
		t.Fatalf("north should project above centre, got %+v", north)
	}
}

func TestParseGeoFeatureCollection(t *testing.T) {
	src := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[2,2],[3,2],[3,3],[2,2]]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"MultiPoint","coordinates":[[-1,5],[4,-2]]}}
	]}`
	d, err := ParseGeo([]byte(src))
	if err != nil {
		t.Fatalf("ParseGeo: %v", err)
	}
	if len(d.Lines) != 1 || len(d.Polygons) != 1 || len(d.Points) != 2 {
		t.Fatalf("counts: lines=%d polys=%d pts=%d", len(d.Lines), len(d.Polygons), len(d.Points))
	}
	want := BBox{MinX: -1, MinY: -2, MaxX: 4, MaxY: 5}
	if d.BBox != want {
		t.Fatalf("bbox = %+v, want %+v", d.BBox, want)
	}
}

func TestParseGeoBareGeometry(t *testing.T) {
	d, err := ParseGeo([]byte(`{"type":"MultiLineString","coordinates":[[[0,0],[1,0]],[[0,1],[1,1]]]}`))
	if err != nil {
		t.Fatalf("ParseGeo: %v", err)
	}
	if len(d.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(d.Lines))
	}
}

func TestParseGeoErrors(t *testing.T) {
	if _, err := ParseGeo([]byte(`{}`)); err == nil {
		t.Fatal("expected error for missing type")
	}
	if _, err := ParseGeo([]byte(`{"type":"FeatureCollection","features":[]}`)); !errors.Is(err, ErrNoGeometry) {
		t.Fatalf("err = %v, want ErrNoGeometry", err)
	}
	if _, err := ParseGeo([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestParseWKTData(t *testing.T) {
	src := "LINESTRING(0 0, 2 2)\n\nPOLYGON((0 0, 1 0, 1 1, 0 0))\nPOINT(5 5)\n"
	d, err := ParseWKTData(src)
	if err != nil {
		t.Fatalf("ParseWKTData: %v", err)
	}
	if len(d.Lines) != 1 || len(d.Polygons) != 1 || len(d.Points) != 1 {
		t.Fatalf("counts: lines=%d polys=%d pts=%d", len(d.Lines), len(d.Polygons), len(d.Points))
	}
	if d.BBox.MaxX != 5 || d.BBox.MaxY != 5 || d.BBox.MinX != 0 {
		t.Fatalf("bbox = %+v", d.BBox)
	}
	if _, err := ParseWKTData("   "); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := ParseWKTData("CIRCLE(1 2)"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestLoadBaseMapDispatch(t *testing.T) {
	dir := t.TempDir()
	wktPath := filepath.Join(dir, "streets.wkt")
	if err := os.WriteFile(wktPath, []byte("LINESTRING(0 0, 1 1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := LoadBaseMap(wktPath)
	if err != nil || len(d.Lines) != 1 {
		t.Fatalf("LoadBaseMap wkt: %v %+v", err, d)
	}
	geoPath := filepath.Join(dir, "parks.geojson")
	if err := os.WriteFile(geoPath, []byte(`{"type":"Point","coordinates":[1,2]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err = LoadBaseMap(geoPath)
	if err != nil || len(d.Points) != 1 {
		t.Fatalf("LoadBaseMap geojson: %v %+v", err, d)
	}
	if _, err := LoadBaseMap(filepath.Join(dir, "map.svg")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestBBoxIntersectsAndContains(t *testing.T) {
	b := BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	tests := []struct {
		name string
		o    BBox
		want bool
	}{
		{"inside", BBox{MinX: 2, MinY: 2, MaxX: 3, MaxY: 3}, true},
		{"overlapping", BBox{MinX: 5, MinY: -5, MaxX: 15, MaxY: 5}, true},
		{"touching edge", BBox{MinX: 10, MinY: 0, MaxX: 20, MaxY: 10}, true},
		{"covering", BBox{MinX: -1, MinY: -1, MaxX: 11, MaxY: 11}, true},
		{"left of", BBox{MinX: -5, MinY: 0, MaxX: -0.1, MaxY: 10}, false},
		{"below", BBox{MinX: 0, MinY: 10.1, MaxX: 10, MaxY: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Intersects(tt.o); got != tt.want {
				t.Fatalf("Intersects = %v, want %v", got, tt.want)
			}
			if got := tt.o.Intersects(b); got != tt.want {
				t.Fatalf("reversed Intersects = %v, want %v", got, tt.want)
			}
		})
	}
	if !b.Contains(10, 0) || b.Contains(10.01, 5) || b.Contains(math.NaN(), 5) {
		t.Fatal("Contains should accept the closed box only")
	}
}
