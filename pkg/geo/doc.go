// Package geo defines the geometry model shared by the urbanmap parsers,
// grid generator and bounding-box index.
//
// All values are plain data. Functions that transform a geometry or a
// collection return fresh copies and never modify their input, so results may
// be handed to a renderer while the caller keeps using the original.
//
// # Geometry
//
// Geometry is a tagged variant. Type selects the populated payload:
//
//	poly := geo.NewPolygon(geo.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}})
//	poly.EachCoordinate(func(c geo.Coordinate) {
//	    fmt.Println(c.Lon(), c.Lat())
//	})
//
// # World copies
//
// Web maps repeat the world every 360 degrees of longitude. NormalizeToCenter
// moves each coordinate onto the copy closest to the current map center:
//
//	shifted := geo.NormalizeToCenter(fc, view.Longitude)
//
// # GeoJSON
//
// FeatureCollection implements json.Marshaler and json.Unmarshaler using the
// GeoJSON layout expected by web map renderers.
package geo
