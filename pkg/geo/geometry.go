package geo

// Coordinate is a [longitude, latitude] pair in decimal degrees.
//
// Coordinates follow GeoJSON convention: longitude first.
type Coordinate [2]float64

// Lon returns the longitude.
func (c Coordinate) Lon() float64 { return c[0] }

// Lat returns the latitude.
func (c Coordinate) Lat() float64 { return c[1] }

// Ring is an ordered sequence of coordinates forming a polygon boundary.
//
// A closed ring has its first coordinate repeated as the last one.
type Ring []Coordinate

// Closed reports whether the ring ends where it starts.
func (r Ring) Closed() bool {
	if len(r) < 2 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// Clone returns a copy of the ring.
func (r Ring) Clone() Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// GeometryType represents the type of geometry.
type GeometryType int

const (
	// GeometryTypeUnknown is the zero value. It marks a geometry that was
	// never set and is rejected by ValidateGeometry.
	GeometryTypeUnknown GeometryType = iota

	// GeometryTypePoint represents a single point location.
	GeometryTypePoint

	// GeometryTypeLineString represents a line composed of connected points.
	GeometryTypeLineString

	// GeometryTypePolygon represents an exterior ring followed by optional holes.
	GeometryTypePolygon

	// GeometryTypeMultiPolygon represents a set of polygons.
	GeometryTypeMultiPolygon
)

// String returns the GeoJSON name of the geometry type.
func (g GeometryType) String() string {
	switch g {
	case GeometryTypePoint:
		return "Point"
	case GeometryTypeLineString:
		return "LineString"
	case GeometryTypePolygon:
		return "Polygon"
	case GeometryTypeMultiPolygon:
		return "MultiPolygon"
	default:
		return "Unknown"
	}
}

// Geometry is the spatial representation of a feature.
//
// Type selects which payload field is meaningful:
//
//	GeometryTypePoint        -> Point
//	GeometryTypeLineString   -> LineString
//	GeometryTypePolygon      -> Polygon (first ring exterior, rest holes)
//	GeometryTypeMultiPolygon -> MultiPolygon (each element is a polygon's rings)
//
// The other payload fields are left nil. Use the New* constructors rather than
// building the struct by hand.
type Geometry struct {
	Type GeometryType

	Point        Coordinate
	LineString   []Coordinate
	Polygon      []Ring
	MultiPolygon [][]Ring
}

// NewPoint creates a point geometry.
func NewPoint(c Coordinate) Geometry {
	return Geometry{Type: GeometryTypePoint, Point: c}
}

// NewLineString creates a line geometry.
func NewLineString(coords ...Coordinate) Geometry {
	return Geometry{Type: GeometryTypeLineString, LineString: coords}
}

// NewPolygon creates a polygon geometry from its rings.
func NewPolygon(rings ...Ring) Geometry {
	return Geometry{Type: GeometryTypePolygon, Polygon: rings}
}

// NewMultiPolygon creates a multipolygon geometry.
func NewMultiPolygon(polygons ...[]Ring) Geometry {
	return Geometry{Type: GeometryTypeMultiPolygon, MultiPolygon: polygons}
}

// ExteriorRing returns the ring used for bounding-box and outline purposes:
// the first ring of a Polygon, or the first ring of the first sub-polygon
// of a MultiPolygon. Returns nil for other types or empty payloads.
func (g Geometry) ExteriorRing() Ring {
	switch g.Type {
	case GeometryTypePolygon:
		if len(g.Polygon) > 0 {
			return g.Polygon[0]
		}
	case GeometryTypeMultiPolygon:
		if len(g.MultiPolygon) > 0 && len(g.MultiPolygon[0]) > 0 {
			return g.MultiPolygon[0][0]
		}
	}
	return nil
}

// IsArea reports whether the geometry is a Polygon or MultiPolygon.
func (g Geometry) IsArea() bool {
	return g.Type == GeometryTypePolygon || g.Type == GeometryTypeMultiPolygon
}

// Feature is a geometry plus opaque pass-through properties.
type Feature struct {
	Geometry   Geometry
	Properties map[string]interface{}
}

// NewFeature creates a feature with empty (non-nil) properties.
func NewFeature(g Geometry) Feature {
	return Feature{Geometry: g, Properties: map[string]interface{}{}}
}

// Property returns a property value by name.
func (f Feature) Property(name string) (interface{}, bool) {
	val, ok := f.Properties[name]
	return val, ok
}

// Clone returns a deep copy of the geometry and a shallow copy of the properties.
func (f Feature) Clone() Feature {
	return Feature{
		Geometry:   f.Geometry.Clone(),
		Properties: cloneProperties(f.Properties),
	}
}

// FeatureCollection is an ordered list of features. Order is insertion order
// and matters for rendering stacking only.
type FeatureCollection struct {
	Features []Feature
}

// NewFeatureCollection creates a collection holding the given features.
func NewFeatureCollection(features ...Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Features: features}
}

// Len returns the number of features.
func (fc FeatureCollection) Len() int {
	return len(fc.Features)
}

// Append returns a collection with f appended. The receiver's backing array is
// not shared with the result.
func (fc FeatureCollection) Append(f ...Feature) FeatureCollection {
	out := make([]Feature, 0, len(fc.Features)+len(f))
	out = append(out, fc.Features...)
	out = append(out, f...)
	return FeatureCollection{Features: out}
}

func cloneProperties(props map[string]interface{}) map[string]interface{} {
	if props == nil {
		return nil
	}
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
