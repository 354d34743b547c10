package dataset

import (
	"errors"
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"
)

// ReadBoundaries extracts Polygon and MultiPolygon geometries from a GeoJSON
// FeatureCollection. Other geometry types are ignored.
func ReadBoundaries(r io.Reader) ([]Boundary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("boundaries: %w", err)
	}
	var out []Boundary
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch {
		case f.Geometry.IsPolygon():
			if b := toBoundary(f.Geometry.Polygon); len(b) > 0 {
				out = append(out, b)
			}
		case f.Geometry.IsMultiPolygon():
			for _, poly := range f.Geometry.MultiPolygon {
				if b := toBoundary(poly); len(b) > 0 {
					out = append(out, b)
				}
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.New("boundaries: no polygons found")
	}
	return out, nil
}

func toBoundary(poly [][][]float64) Boundary {
	var b Boundary
	for _, ring := range poly {
		var rs [][2]float64
		for _, p := range ring {
			if len(p) < 2 {
				continue
			}
			rs = append(rs, [2]float64{p[0], p[1]})
		}
		if len(rs) >= 3 {
			b = append(b, rs)
		}
	}
	return b
}
