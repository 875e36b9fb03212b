// Package index replaces detailed polygons with lightweight bounding-box
// placeholders and keeps the originals in a side table keyed by id.
//
// Large polygon layers render and hit-test faster as rectangles. A caller
// draws Placeholders, finds candidates with Query or Pick, and swaps in the
// detailed shapes with Promote.
//
//	idx := index.IndexByBBox(fc)
//	draw(idx.Placeholders())
//	draw(idx.Promote(idx.Pick(lon, lat)))
package index

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s2"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

// PropertyID is the placeholder property holding the side-table key.
const PropertyID = "bboxId"

// minExtent keeps degenerate boxes valid for the R-tree (~11 m at the equator).
const minExtent = 0.0001

// Index holds bbox placeholders and the detailed features they stand for.
type Index struct {
	placeholders []geo.Feature
	details      map[string]geo.Feature
	rtree        *rtreego.Rtree
}

// entry wraps one indexed feature for R-tree storage.
type entry struct {
	id   string
	pos  int
	bbox geo.BoundingBox
	loop *s2.Loop // nil when the ring has fewer than 3 vertices
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect {
	return rect(e.bbox)
}

func rect(b geo.BoundingBox) rtreego.Rect {
	point := rtreego.Point{b.MinLon, b.MinLat}

	lonLength := b.MaxLon - b.MinLon
	latLength := b.MaxLat - b.MinLat
	if lonLength < minExtent {
		lonLength = minExtent
	}
	if latLength < minExtent {
		latLength = minExtent
	}

	r, _ := rtreego.NewRect(point, []float64{lonLength, latLength})
	return r
}

// IndexByBBox builds an index over the Polygon and MultiPolygon features of
// fc. The bbox of each feature covers its exterior ring: the first ring of a
// Polygon, or the first ring of the first part of a MultiPolygon. Features of
// other types and areas with no coordinates are skipped.
//
// Ids are "bbox-<n>" where n is the feature's position in fc, so they are
// stable for a given input.
func IndexByBBox(fc geo.FeatureCollection) *Index {
	idx := &Index{
		details: make(map[string]geo.Feature),
		rtree:   rtreego.NewTree(2, 25, 50),
	}

	for i, f := range fc.Features {
		if !f.Geometry.IsArea() {
			continue
		}
		outer := f.Geometry.ExteriorRing()
		bbox, ok := geo.RingBounds(outer)
		if !ok {
			continue
		}

		id := fmt.Sprintf("bbox-%d", i)
		placeholder := geo.NewFeature(geo.NewPolygon(bbox.Ring()))
		placeholder.Properties[PropertyID] = id

		e := &entry{id: id, pos: i, bbox: bbox, loop: ringLoop(outer)}
		idx.placeholders = append(idx.placeholders, placeholder)
		idx.details[id] = f.Clone()
		idx.rtree.Insert(e)
	}

	return idx
}

// Len returns the number of indexed features.
func (idx *Index) Len() int {
	return len(idx.placeholders)
}

// Placeholders returns one rectangle Polygon per indexed feature, in input
// order. Each carries only the PropertyID property.
func (idx *Index) Placeholders() geo.FeatureCollection {
	out := make([]geo.Feature, len(idx.placeholders))
	for i, f := range idx.placeholders {
		out[i] = f.Clone()
	}
	return geo.NewFeatureCollection(out...)
}

// Detail returns the original feature for id.
func (idx *Index) Detail(id string) (geo.Feature, bool) {
	f, ok := idx.details[id]
	if !ok {
		return geo.Feature{}, false
	}
	return f.Clone(), true
}

// Query returns the ids whose bbox intersects bounds, in input order.
func (idx *Index) Query(bounds geo.BoundingBox) []string {
	bounds = geo.NewBoundingBox(
		geo.Coordinate{bounds.MinLon, bounds.MinLat},
		geo.Coordinate{bounds.MaxLon, bounds.MaxLat},
	)

	var hits []*entry
	for _, s := range idx.rtree.SearchIntersect(rect(bounds)) {
		e := s.(*entry)
		// the R-tree pads degenerate boxes; confirm against the real ones
		if e.bbox.Intersects(bounds) {
			hits = append(hits, e)
		}
	}
	return sortedIDs(hits)
}

// Pick returns the ids of features whose exterior ring contains the point,
// in input order. Candidates come from the bbox index and are confirmed with
// an exact spherical containment test.
func (idx *Index) Pick(lon, lat float64) []string {
	point := geo.BoundingBox{MinLon: lon, MinLat: lat, MaxLon: lon, MaxLat: lat}
	target := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))

	var hits []*entry
	for _, s := range idx.rtree.SearchIntersect(rect(point)) {
		e := s.(*entry)
		if !e.bbox.Contains(lon, lat) {
			continue
		}
		if e.loop == nil || !e.loop.ContainsPoint(target) {
			continue
		}
		hits = append(hits, e)
	}
	return sortedIDs(hits)
}

// ringLoop converts a ring to a normalized s2 loop. Rings with fewer than
// three vertices yield nil.
func ringLoop(ring geo.Ring) *s2.Loop {
	if ring.Closed() {
		// s2 loops are implicitly closed
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil
	}

	pts := make([]s2.Point, 0, len(ring))
	for _, c := range ring {
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat(), c.Lon())))
	}
	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	return loop
}

// Promote returns the detailed features for ids, in the order given.
// Unknown ids are skipped.
func (idx *Index) Promote(ids []string) geo.FeatureCollection {
	out := make([]geo.Feature, 0, len(ids))
	for _, id := range ids {
		if f, ok := idx.details[id]; ok {
			out = append(out, f.Clone())
		}
	}
	return geo.NewFeatureCollection(out...)
}

func sortedIDs(entries []*entry) []string {
	sort.Slice(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}
