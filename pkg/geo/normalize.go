package geo

import "math"

// NormalizeLongitude returns the longitude equivalent to lon (mod 360) that is
// nearest to center, i.e. the value lon' with lon'-center in (-180, 180].
//
//	NormalizeLongitude(179, -179)  // -181
//	NormalizeLongitude(-170, 540)  // 550
func NormalizeLongitude(lon, center float64) float64 {
	k := math.Ceil((lon - center - 180) / 360)
	if k == 0 {
		return lon
	}
	return lon - 360*k
}

// NormalizeToCenter shifts every longitude in fc by whole turns so each lies
// in the world copy nearest to centerLon. Latitudes are left as they are.
//
// The result is a new collection; fc is not modified. When centerLon is not a
// finite number, or fc has no features, fc itself is returned.
//
// Map views that let the user pan across several world copies report a
// center longitude outside [-180, 180]; normalizing drawn polygons to that
// center keeps them under the viewport instead of on another copy.
func NormalizeToCenter(fc FeatureCollection, centerLon float64) FeatureCollection {
	if math.IsNaN(centerLon) || math.IsInf(centerLon, 0) || len(fc.Features) == 0 {
		return fc
	}

	shift := func(c Coordinate) Coordinate {
		return Coordinate{NormalizeLongitude(c[0], centerLon), c[1]}
	}

	out := make([]Feature, len(fc.Features))
	for i, f := range fc.Features {
		out[i] = Feature{
			Geometry:   f.Geometry.MapCoordinates(shift),
			Properties: cloneProperties(f.Properties),
		}
	}
	return FeatureCollection{Features: out}
}
