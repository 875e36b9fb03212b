package geo

import "math"

// ViewState is the camera position of a web map.
type ViewState struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
}

// ClampView keeps a view inside bounds and its zoom inside [minZoom, maxZoom].
// Non-finite fields fall back to the matching field of fallback.
func ClampView(v, fallback ViewState, bounds BoundingBox, minZoom, maxZoom float64) ViewState {
	lon := finiteOr(v.Longitude, fallback.Longitude)
	lat := finiteOr(v.Latitude, fallback.Latitude)
	zoom := finiteOr(v.Zoom, fallback.Zoom)

	return ViewState{
		Longitude: clamp(lon, bounds.MinLon, bounds.MaxLon),
		Latitude:  clamp(lat, bounds.MinLat, bounds.MaxLat),
		Zoom:      clamp(zoom, minZoom, maxZoom),
	}
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(math.Min(v, hi), lo)
}
