package geo

import (
	"fmt"
	"math"
)

// ValidateCoordinate validates a single coordinate pair.
//
// Only finiteness is checked: longitudes outside [-180, 180] are legal after
// normalization to a world copy.
func ValidateCoordinate(c Coordinate) error {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ErrInvalidCoordinate{Lon: c[0], Lat: c[1]}
		}
	}
	return nil
}

// ValidateGeometry checks that the payload matching g.Type is present and that
// every coordinate is finite.
func ValidateGeometry(g Geometry) error {
	switch g.Type {
	case GeometryTypePoint:
	case GeometryTypeLineString:
		if len(g.LineString) < 2 {
			return &ErrInvalidGeometry{Type: g.Type, Reason: fmt.Sprintf("need at least 2 coordinates, got %d", len(g.LineString))}
		}
	case GeometryTypePolygon:
		if err := validateRings(g.Type, g.Polygon); err != nil {
			return err
		}
	case GeometryTypeMultiPolygon:
		if len(g.MultiPolygon) == 0 {
			return &ErrInvalidGeometry{Type: g.Type, Reason: "no polygons"}
		}
		for i, poly := range g.MultiPolygon {
			if err := validateRings(g.Type, poly); err != nil {
				return fmt.Errorf("polygon %d: %w", i, err)
			}
		}
	default:
		return &ErrInvalidGeometry{Type: g.Type, Reason: "unknown geometry type"}
	}

	var firstErr error
	i := 0
	g.EachCoordinate(func(c Coordinate) {
		if firstErr == nil {
			if err := ValidateCoordinate(c); err != nil {
				firstErr = &ErrInvalidGeometry{
					Type:   g.Type,
					Reason: fmt.Sprintf("coordinate %d invalid: %v", i, err),
				}
			}
		}
		i++
	})
	return firstErr
}

func validateRings(t GeometryType, rings []Ring) error {
	if len(rings) == 0 {
		return &ErrInvalidGeometry{Type: t, Reason: "no rings"}
	}
	for i, ring := range rings {
		if len(ring) == 0 {
			return &ErrInvalidGeometry{Type: t, Reason: fmt.Sprintf("ring %d is empty", i)}
		}
	}
	return nil
}

// ValidateFeatureCollection validates every feature geometry in fc.
func ValidateFeatureCollection(fc FeatureCollection) error {
	for i, f := range fc.Features {
		if err := ValidateGeometry(f.Geometry); err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
	}
	return nil
}
