package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// ErrNoGeometry is returned when a base-map source parses but holds nothing drawable.
var ErrNoGeometry = errors.New("no geometries found")

// LoadBaseMap reads a base-map underlay, choosing the decoder by extension.
func LoadBaseMap(path string) (Data, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		return LoadGeo(path)
	case ".wkt":
		b, err := os.ReadFile(path)
		if err != nil {
			return Data{}, err
		}
		return ParseWKTData(string(b))
	default:
		return Data{}, fmt.Errorf("unsupported base map: %q", ext)
	}
}

// LoadGeo reads a GeoJSON file (FeatureCollection, Feature or bare geometry).
func LoadGeo(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, err
	}
	return ParseGeo(b)
}

// ParseGeo decodes GeoJSON bytes into Data.
func ParseGeo(b []byte) (Data, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return Data{}, fmt.Errorf("geojson: %w", err)
	}
	var d Data
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(b)
		if err != nil {
			return Data{}, fmt.Errorf("geojson: %w", err)
		}
		for _, f := range fc.Features {
			if f.Geometry != nil {
				d.add(f.Geometry)
			}
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(b)
		if err != nil {
			return Data{}, fmt.Errorf("geojson: %w", err)
		}
		if f.Geometry != nil {
			d.add(f.Geometry)
		}
	case "":
		return Data{}, errors.New("geojson: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(b)
		if err != nil {
			return Data{}, fmt.Errorf("geojson: %w", err)
		}
		d.add(g.Geometry())
	}
	if d.Empty() {
		return Data{}, ErrNoGeometry
	}
	return d, nil
}
