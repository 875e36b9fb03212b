package geo

// EachCoordinate calls fn for every coordinate pair of the geometry, in order.
//
// Each geometry type has its own traversal so the nesting depth is fixed by
// the type rather than discovered at runtime.
func (g Geometry) EachCoordinate(fn func(Coordinate)) {
	switch g.Type {
	case GeometryTypePoint:
		fn(g.Point)
	case GeometryTypeLineString:
		for _, c := range g.LineString {
			fn(c)
		}
	case GeometryTypePolygon:
		eachRingCoordinate(g.Polygon, fn)
	case GeometryTypeMultiPolygon:
		for _, poly := range g.MultiPolygon {
			eachRingCoordinate(poly, fn)
		}
	}
}

func eachRingCoordinate(rings []Ring, fn func(Coordinate)) {
	for _, ring := range rings {
		for _, c := range ring {
			fn(c)
		}
	}
}

// MapCoordinates returns a copy of the geometry with every coordinate replaced
// by fn(c). The receiver is not modified.
func (g Geometry) MapCoordinates(fn func(Coordinate) Coordinate) Geometry {
	out := Geometry{Type: g.Type}
	switch g.Type {
	case GeometryTypePoint:
		out.Point = fn(g.Point)
	case GeometryTypeLineString:
		out.LineString = mapLine(g.LineString, fn)
	case GeometryTypePolygon:
		out.Polygon = mapRings(g.Polygon, fn)
	case GeometryTypeMultiPolygon:
		if g.MultiPolygon != nil {
			out.MultiPolygon = make([][]Ring, len(g.MultiPolygon))
			for i, poly := range g.MultiPolygon {
				out.MultiPolygon[i] = mapRings(poly, fn)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the geometry.
func (g Geometry) Clone() Geometry {
	return g.MapCoordinates(func(c Coordinate) Coordinate { return c })
}

// CoordinateCount returns the number of coordinate pairs in the geometry.
func (g Geometry) CoordinateCount() int {
	n := 0
	g.EachCoordinate(func(Coordinate) { n++ })
	return n
}

func mapLine(line []Coordinate, fn func(Coordinate) Coordinate) []Coordinate {
	if line == nil {
		return nil
	}
	out := make([]Coordinate, len(line))
	for i, c := range line {
		out[i] = fn(c)
	}
	return out
}

func mapRings(rings []Ring, fn func(Coordinate) Coordinate) []Ring {
	if rings == nil {
		return nil
	}
	out := make([]Ring, len(rings))
	for i, ring := range rings {
		out[i] = Ring(mapLine(ring, fn))
	}
	return out
}
