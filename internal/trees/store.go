package trees

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"treemap/internal/geom"
)

// Record is one tree. Species is lower-cased at load time.
type Record struct {
	ID       int64
	Species  string
	Diameter float64
	Lon      float64
	Lat      float64
}

// LoadError marks a dataset that could not be read at all.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return "load trees: " + e.Err.Error()
	}
	return fmt.Sprintf("load trees %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var (
	ErrEmpty          = errors.New("empty csv")
	ErrMissingColumns = errors.New("latitude/longitude columns not found")
)

// Report summarizes lax-parsing decisions taken during a load.
type Report struct {
	Rows       int // data rows read
	Defaulted  int // rows with at least one numeric field defaulted to 0
	Duplicates int // rows skipped because their id was already seen
}

// Store is the immutable loaded dataset.
type Store struct {
	records []Record
	minDiam float64
	maxDiam float64
	index   *spatialIndex
	proj    geom.Projector
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, proj geom.Projector) (*Store, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	s, rep, err := Load(f, proj)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, rep, err
	}
	return s, rep, nil
}

// Load reads tree rows from CSV.
// Column detection (case-insensitive): treeid|id, qspecies|species, dbh|diameter,
// longitude|lon|lng|long|x, latitude|lat|y. Only the coordinate columns are required.
func Load(r io.Reader, proj geom.Projector) (*Store, Report, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, Report{}, &LoadError{Err: err}
	}
	if len(recs) == 0 {
		return nil, Report{}, &LoadError{Err: ErrEmpty}
	}
	cols := detectColumns(recs[0])
	if cols.lon == -1 || cols.lat == -1 {
		return nil, Report{}, &LoadError{Err: ErrMissingColumns}
	}

	var rep Report
	s := &Store{proj: proj}
	seen := make(map[int64]struct{}, len(recs)-1)
	for _, row := range recs[1:] {
		rep.Rows++
		rec, defaulted := cols.parse(row)
		if defaulted {
			rep.Defaulted++
		}
		if cols.id == -1 {
			rec.ID = int64(rep.Rows)
		}
		if _, dup := seen[rec.ID]; dup {
			rep.Duplicates++
			continue
		}
		seen[rec.ID] = struct{}{}
		if len(s.records) == 0 || rec.Diameter < s.minDiam {
			s.minDiam = rec.Diameter
		}
		if len(s.records) == 0 || rec.Diameter > s.maxDiam {
			s.maxDiam = rec.Diameter
		}
		s.records = append(s.records, rec)
	}
	s.index = buildIndex(s.records, proj)
	return s, rep, nil
}

// All returns the records in load order. The slice is a copy.
func (s *Store) All() []Record {
	if s == nil {
		return nil
	}
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the fixed dataset size.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// DiameterRange returns the smallest and largest observed diameter.
func (s *Store) DiameterRange() (float64, float64) {
	if s == nil {
		return 0, 0
	}
	return s.minDiam, s.maxDiam
}

// Projector returns the projection the spatial index was built with.
func (s *Store) Projector() geom.Projector {
	if s == nil {
		return nil
	}
	return s.proj
}

type columns struct {
	id, species, diameter, lon, lat int
}

func detectColumns(header []string) columns {
	c := columns{id: -1, species: -1, diameter: -1, lon: -1, lat: -1}
	set := func(dst *int, i int) {
		if *dst == -1 {
			*dst = i
		}
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "treeid", "id":
			set(&c.id, i)
		case "qspecies", "species":
			set(&c.species, i)
		case "dbh", "diameter":
			set(&c.diameter, i)
		case "longitude", "lon", "lng", "long", "x":
			set(&c.lon, i)
		case "latitude", "lat", "y":
			set(&c.lat, i)
		}
	}
	return c
}

// parse never fails: unreadable numbers become 0 and negative ids or diameters clamp to 0.
func (c columns) parse(row []string) (Record, bool) {
	defaulted := false
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(i int) float64 {
		v, err := strconv.ParseFloat(field(i), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			if i >= 0 {
				defaulted = true
			}
			return 0
		}
		return v
	}
	var rec Record
	if id, err := strconv.ParseInt(field(c.id), 10, 64); err == nil {
		rec.ID = max(id, 0)
	} else if c.id >= 0 {
		defaulted = true
	}
	rec.Species = strings.ToLower(field(c.species))
	rec.Diameter = math.Max(num(c.diameter), 0)
	rec.Lon = num(c.lon)
	rec.Lat = num(c.lat)
	return rec, defaulted
}
