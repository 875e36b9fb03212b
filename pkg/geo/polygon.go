package geo

// CloseRing ensures a ring is closed (first coordinate == last).
//
// Rings with fewer than 3 coordinates are returned unchanged, as are rings
// that are already closed. The input is never modified.
func CloseRing(r Ring) Ring {
	if len(r) < 3 {
		return r.Clone()
	}

	if r.Closed() {
		return r.Clone()
	}

	closed := make(Ring, len(r)+1)
	copy(closed, r)
	closed[len(r)] = r[0]
	return closed
}

// CoordsToPolygonFeatureCollection wraps a coordinate list as a collection
// holding a single Polygon feature whose exterior ring is coords, in order.
//
// No closing or validation is applied; callers that want a closed ring pass
// one (the tabular parser already closes its output).
func CoordsToPolygonFeatureCollection(coords []Coordinate) FeatureCollection {
	ring := Ring(coords).Clone()
	if ring == nil {
		ring = Ring{}
	}
	return NewFeatureCollection(NewFeature(NewPolygon(ring)))
}

// LatLon is a coordinate in the latitude-first record form used by backend
// request payloads.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PolygonToLatLon returns the outline of the first area feature in fc as
// lat/lon records: the exterior ring of a Polygon, or the first ring of the
// first sub-polygon of a MultiPolygon. Returns an empty slice when fc holds no
// area feature.
func PolygonToLatLon(fc FeatureCollection) []LatLon {
	for _, f := range fc.Features {
		if !f.Geometry.IsArea() {
			continue
		}
		ring := f.Geometry.ExteriorRing()
		out := make([]LatLon, len(ring))
		for i, c := range ring {
			out[i] = LatLon{Lat: c.Lat(), Lon: c.Lon()}
		}
		return out
	}
	return []LatLon{}
}
