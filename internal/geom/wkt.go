package geom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKTData parses one WKT geometry per non-empty line.
// Supported: POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON, MULTIPOLYGON,
// GEOMETRYCOLLECTION.
func ParseWKTData(s string) (Data, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Data{}, errors.New("empty wkt")
	}
	var d Data
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		g, err := wkt.Unmarshal(line)
		if err != nil {
			return Data{}, fmt.Errorf("wkt line %d: %w", i+1, err)
		}
		d.add(g)
	}
	if d.Empty() {
		return Data{}, ErrNoGeometry
	}
	return d, nil
}
