package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Orb converts the geometry to its orb equivalent.
func (g Geometry) Orb() orb.Geometry {
	switch g.Type {
	case GeometryTypePoint:
		return orb.Point(g.Point)
	case GeometryTypeLineString:
		ls := make(orb.LineString, len(g.LineString))
		for i, c := range g.LineString {
			ls[i] = orb.Point(c)
		}
		return ls
	case GeometryTypePolygon:
		return orbPolygon(g.Polygon)
	case GeometryTypeMultiPolygon:
		mp := make(orb.MultiPolygon, len(g.MultiPolygon))
		for i, poly := range g.MultiPolygon {
			mp[i] = orbPolygon(poly)
		}
		return mp
	default:
		return nil
	}
}

func orbPolygon(rings []Ring) orb.Polygon {
	poly := make(orb.Polygon, len(rings))
	for i, ring := range rings {
		r := make(orb.Ring, len(ring))
		for j, c := range ring {
			r[j] = orb.Point(c)
		}
		poly[i] = r
	}
	return poly
}

// GeometryFromOrb converts an orb geometry into a Geometry.
//
// Point, LineString, Polygon and MultiPolygon are supported. A bare orb.Ring
// becomes a single-ring Polygon. Anything else yields *ErrUnsupportedGeometry.
func GeometryFromOrb(g orb.Geometry) (Geometry, error) {
	switch v := g.(type) {
	case orb.Point:
		return NewPoint(Coordinate(v)), nil
	case orb.LineString:
		coords := make([]Coordinate, len(v))
		for i, p := range v {
			coords[i] = Coordinate(p)
		}
		return NewLineString(coords...), nil
	case orb.Ring:
		return NewPolygon(ringFromOrb(v)), nil
	case orb.Polygon:
		return NewPolygon(ringsFromOrb(v)...), nil
	case orb.MultiPolygon:
		polys := make([][]Ring, len(v))
		for i, p := range v {
			polys[i] = ringsFromOrb(p)
		}
		return NewMultiPolygon(polys...), nil
	case nil:
		return Geometry{}, &ErrUnsupportedGeometry{Type: "null"}
	default:
		return Geometry{}, &ErrUnsupportedGeometry{Type: g.GeoJSONType()}
	}
}

func ringFromOrb(r orb.Ring) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[i] = Coordinate(p)
	}
	return out
}

func ringsFromOrb(p orb.Polygon) []Ring {
	rings := make([]Ring, len(p))
	for i, r := range p {
		rings[i] = ringFromOrb(r)
	}
	return rings
}

// Bound converts the box to an orb.Bound.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// BoundsFromOrb converts an orb.Bound to a BoundingBox.
func BoundsFromOrb(b orb.Bound) BoundingBox {
	return BoundingBox{MinLon: b.Min[0], MinLat: b.Min[1], MaxLon: b.Max[0], MaxLat: b.Max[1]}
}

// GeoJSON converts the collection into an orb GeoJSON feature collection.
func (fc FeatureCollection) GeoJSON() *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		gf := geojson.NewFeature(f.Geometry.Orb())
		for k, v := range f.Properties {
			gf.Properties[k] = v
		}
		out.Append(gf)
	}
	return out
}

// MarshalJSON encodes the collection as a GeoJSON FeatureCollection.
func (fc FeatureCollection) MarshalJSON() ([]byte, error) {
	return fc.GeoJSON().MarshalJSON()
}

// UnmarshalJSON decodes a GeoJSON FeatureCollection.
func (fc *FeatureCollection) UnmarshalJSON(data []byte) error {
	decoded, err := UnmarshalFeatureCollection(data)
	if err != nil {
		return err
	}
	*fc = decoded
	return nil
}

// UnmarshalFeatureCollection decodes GeoJSON text into a FeatureCollection.
//
// Features whose geometry type is not modeled by this package cause an error
// naming the feature position.
func UnmarshalFeatureCollection(data []byte) (FeatureCollection, error) {
	raw, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("decode geojson: %w", err)
	}

	features := make([]Feature, 0, len(raw.Features))
	for i, rf := range raw.Features {
		g, err := GeometryFromOrb(rf.Geometry)
		if err != nil {
			return FeatureCollection{}, fmt.Errorf("feature %d: %w", i, err)
		}
		props := make(map[string]interface{}, len(rf.Properties))
		for k, v := range rf.Properties {
			props[k] = v
		}
		features = append(features, Feature{Geometry: g, Properties: props})
	}
	return FeatureCollection{Features: features}, nil
}
