package geo

import "math"

// BoundingBox represents a geographic bounding box in WGS-84 coordinates.
//
// Coordinates are in decimal degrees.
type BoundingBox struct {
	MinLon float64 // Western edge
	MinLat float64 // Southern edge
	MaxLon float64 // Eastern edge
	MaxLat float64 // Northern edge
}

// NewBoundingBox builds a box from two opposite corners given in any order.
func NewBoundingBox(a, b Coordinate) BoundingBox {
	return BoundingBox{
		MinLon: math.Min(a[0], b[0]),
		MinLat: math.Min(a[1], b[1]),
		MaxLon: math.Max(a[0], b[0]),
		MaxLat: math.Max(a[1], b[1]),
	}
}

// Contains returns true if the point (lon, lat) is within the bounds.
func (b BoundingBox) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon &&
		lat >= b.MinLat && lat <= b.MaxLat
}

// Intersects returns true if the given bounds intersects with this bounds.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(other.MaxLon < b.MinLon ||
		other.MinLon > b.MaxLon ||
		other.MaxLat < b.MinLat ||
		other.MinLat > b.MaxLat)
}

// Expand returns a new BoundingBox expanded by the given margin in all directions.
//
// Margin is in decimal degrees.
func (b BoundingBox) Expand(margin float64) BoundingBox {
	return BoundingBox{
		MinLon: b.MinLon - margin,
		MinLat: b.MinLat - margin,
		MaxLon: b.MaxLon + margin,
		MaxLat: b.MaxLat + margin,
	}
}

// Union returns the smallest box covering both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		MinLon: math.Min(b.MinLon, other.MinLon),
		MinLat: math.Min(b.MinLat, other.MinLat),
		MaxLon: math.Max(b.MaxLon, other.MaxLon),
		MaxLat: math.Max(b.MaxLat, other.MaxLat),
	}
}

// Width returns the longitude span in degrees.
func (b BoundingBox) Width() float64 { return b.MaxLon - b.MinLon }

// Height returns the latitude span in degrees.
func (b BoundingBox) Height() float64 { return b.MaxLat - b.MinLat }

// Valid reports whether all edges are finite and min <= max on both axes.
func (b BoundingBox) Valid() bool {
	for _, v := range []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.MinLon <= b.MaxLon && b.MinLat <= b.MaxLat
}

// Ring returns the box outline as a closed counter-clockwise ring starting at
// the south-west corner.
func (b BoundingBox) Ring() Ring {
	return Ring{
		{b.MinLon, b.MinLat},
		{b.MaxLon, b.MinLat},
		{b.MaxLon, b.MaxLat},
		{b.MinLon, b.MaxLat},
		{b.MinLon, b.MinLat},
	}
}

// RingBounds calculates the bounding box of a ring.
// Returns false when the ring has no coordinates.
func RingBounds(r Ring) (BoundingBox, bool) {
	if len(r) == 0 {
		return BoundingBox{}, false
	}

	// Initialize with first coordinate
	first := r[0]
	bounds := BoundingBox{
		MinLon: first[0],
		MaxLon: first[0],
		MinLat: first[1],
		MaxLat: first[1],
	}

	for _, coord := range r[1:] {
		bounds = bounds.extend(coord)
	}
	return bounds, true
}

// GeometryBounds calculates the bounding box over every coordinate of g.
// Returns false when g has no coordinates.
func GeometryBounds(g Geometry) (BoundingBox, bool) {
	var bounds BoundingBox
	found := false
	g.EachCoordinate(func(c Coordinate) {
		if !found {
			bounds = BoundingBox{MinLon: c[0], MaxLon: c[0], MinLat: c[1], MaxLat: c[1]}
			found = true
			return
		}
		bounds = bounds.extend(c)
	})
	return bounds, found
}

func (b BoundingBox) extend(c Coordinate) BoundingBox {
	lon, lat := c[0], c[1]
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	return b
}
