// Package grid generates square-cell grid lines over a geographic bounding box.
//
// Cells are sized in kilometers. The default model lays the grid out in
// spherical Mercator meters, which keeps cells visually square on a web map at
// any latitude. The geographic model converts kilometers to degrees at a single
// reference latitude instead.
//
//	fc, err := grid.Generate(grid.Spec{
//	    Bounds:              geo.BoundingBox{MinLon: -100.43, MinLat: 25.55, MaxLon: -100.05, MaxLat: 25.78},
//	    CellSizeKm:          1.5,
//	    AlignToGlobalOrigin: true,
//	    PaddingCells:        1,
//	})
package grid

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

// Line orientations, stored in the "orientation" property of each line.
const (
	OrientationVertical   = "vertical"
	OrientationHorizontal = "horizontal"
)

// KmPerDegree is the length of one degree of latitude used by ModelGeographic.
const KmPerDegree = 111.32

// MaxLinesPerAxis bounds the output of a single Generate call.
const MaxLinesPerAxis = 10000

// Spec describes a grid request.
type Spec struct {
	// Bounds is the area to cover. Corners may be given in any order.
	Bounds geo.BoundingBox

	// CellSizeKm is the side of one cell in kilometers. Must be > 0.
	CellSizeKm float64

	// ReferenceLatitude sets the longitude spacing in ModelGeographic.
	// Ignored by ModelProjected.
	ReferenceLatitude float64

	// AlignToGlobalOrigin snaps lines to whole multiples of the cell size
	// measured from (0, 0), so the grid phase does not move while panning.
	AlignToGlobalOrigin bool

	// PaddingCells grows the covered area by this many cells on every side.
	PaddingCells int

	// Model selects the distance model.
	Model Model
}

// normalized returns the spec with bounds corners ordered and fields the
// model ignores zeroed, so equal requests compare equal.
func (s Spec) normalized() Spec {
	s.Bounds = geo.NewBoundingBox(
		geo.Coordinate{s.Bounds.MinLon, s.Bounds.MinLat},
		geo.Coordinate{s.Bounds.MaxLon, s.Bounds.MaxLat},
	)
	if s.Model == ModelProjected {
		s.ReferenceLatitude = 0
	}
	return s
}

// Validate checks the spec for values Generate cannot work with.
func (s Spec) Validate() error {
	if !finite(s.CellSizeKm) || s.CellSizeKm <= 0 {
		return &ErrInvalidSpec{Field: "CellSizeKm", Reason: fmt.Sprintf("must be a positive number, got %v", s.CellSizeKm)}
	}
	if s.PaddingCells < 0 {
		return &ErrInvalidSpec{Field: "PaddingCells", Reason: fmt.Sprintf("must not be negative, got %d", s.PaddingCells)}
	}
	b := s.normalized().Bounds
	if !b.Valid() {
		return &ErrInvalidSpec{Field: "Bounds", Reason: "corners must be finite"}
	}
	switch s.Model {
	case ModelProjected:
	case ModelGeographic:
		if !finite(s.ReferenceLatitude) || math.Abs(s.ReferenceLatitude) >= 90 {
			return &ErrInvalidSpec{Field: "ReferenceLatitude", Reason: fmt.Sprintf("must be inside (-90, 90), got %v", s.ReferenceLatitude)}
		}
	default:
		return &ErrInvalidSpec{Field: "Model", Reason: fmt.Sprintf("unknown model %d", s.Model)}
	}
	return nil
}

// Generate returns one LineString feature per grid line: vertical lines
// first, west to east, then horizontal lines, south to north. Every line spans
// the full padded extent and lines sit on both padded edges.
//
// An invalid spec yields *ErrInvalidSpec.
func Generate(spec Spec) (geo.FeatureCollection, error) {
	if err := spec.Validate(); err != nil {
		return geo.FeatureCollection{}, err
	}
	spec = spec.normalized()

	if spec.Model == ModelGeographic {
		return generateGeographic(spec)
	}
	return generateProjected(spec)
}

// generateProjected lays out lines in spherical Mercator meters and converts
// the endpoints back to longitude/latitude.
func generateProjected(spec Spec) (geo.FeatureCollection, error) {
	cell := spec.CellSizeKm * 1000

	sw := project.WGS84.ToMercator(orb.Point{spec.Bounds.MinLon, spec.Bounds.MinLat})
	ne := project.WGS84.ToMercator(orb.Point{spec.Bounds.MaxLon, spec.Bounds.MaxLat})

	pad := float64(spec.PaddingCells) * cell
	minX, maxX := math.Min(sw[0], ne[0])-pad, math.Max(sw[0], ne[0])+pad
	minY, maxY := math.Min(sw[1], ne[1])-pad, math.Max(sw[1], ne[1])+pad

	xs, err := axisPositions(minX, maxX, cell, spec.AlignToGlobalOrigin)
	if err != nil {
		return geo.FeatureCollection{}, err
	}
	ys, err := axisPositions(minY, maxY, cell, spec.AlignToGlobalOrigin)
	if err != nil {
		return geo.FeatureCollection{}, err
	}

	toLonLat := func(x, y float64) geo.Coordinate {
		return geo.Coordinate(project.Mercator.ToWGS84(orb.Point{x, y}))
	}

	features := make([]geo.Feature, 0, len(xs)+len(ys))
	for _, x := range xs {
		features = append(features, gridLine(OrientationVertical, toLonLat(x, minY), toLonLat(x, maxY)))
	}
	for _, y := range ys {
		features = append(features, gridLine(OrientationHorizontal, toLonLat(minX, y), toLonLat(maxX, y)))
	}
	return geo.NewFeatureCollection(features...), nil
}

// generateGeographic converts the cell size to degrees at the reference
// latitude and lays out lines directly in longitude/latitude.
func generateGeographic(spec Spec) (geo.FeatureCollection, error) {
	latStep := spec.CellSizeKm / KmPerDegree
	lonStep := spec.CellSizeKm / (KmPerDegree * math.Cos(spec.ReferenceLatitude*math.Pi/180))

	b := spec.Bounds
	padLon := float64(spec.PaddingCells) * lonStep
	padLat := float64(spec.PaddingCells) * latStep
	minLon, maxLon := b.MinLon-padLon, b.MaxLon+padLon
	minLat, maxLat := b.MinLat-padLat, b.MaxLat+padLat

	lons, err := axisPositions(minLon, maxLon, lonStep, spec.AlignToGlobalOrigin)
	if err != nil {
		return geo.FeatureCollection{}, err
	}
	lats, err := axisPositions(minLat, maxLat, latStep, spec.AlignToGlobalOrigin)
	if err != nil {
		return geo.FeatureCollection{}, err
	}

	features := make([]geo.Feature, 0, len(lons)+len(lats))
	for _, lon := range lons {
		features = append(features, gridLine(OrientationVertical, geo.Coordinate{lon, minLat}, geo.Coordinate{lon, maxLat}))
	}
	for _, lat := range lats {
		features = append(features, gridLine(OrientationHorizontal, geo.Coordinate{minLon, lat}, geo.Coordinate{maxLon, lat}))
	}
	return geo.NewFeatureCollection(features...), nil
}

// axisPositions returns the line positions along one axis, clamped to
// [lo, hi]. The first position is lo, the last is hi, and interior positions
// step from lo, or from the largest multiple of step not above lo when align
// is set. Positions closer than step*1e-9 are merged.
func axisPositions(lo, hi, step float64, align bool) ([]float64, error) {
	start := lo
	if align {
		// floor keeps negative coordinates on the same phase as positive ones
		start = math.Floor(lo/step) * step
	}

	if n := (hi - start) / step; !finite(n) || n > MaxLinesPerAxis {
		return nil, &ErrInvalidSpec{
			Field:  "CellSizeKm",
			Reason: fmt.Sprintf("grid would need more than %d lines per axis", MaxLinesPerAxis),
		}
	}

	eps := step * 1e-9
	var out []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v >= hi-eps {
			out = appendDistinct(out, hi, eps)
			break
		}
		if v < lo {
			v = lo
		}
		out = appendDistinct(out, v, eps)
	}
	return out, nil
}

func appendDistinct(out []float64, v, eps float64) []float64 {
	if n := len(out); n > 0 && math.Abs(out[n-1]-v) <= eps {
		return out
	}
	return append(out, v)
}

func gridLine(orientation string, from, to geo.Coordinate) geo.Feature {
	f := geo.NewFeature(geo.NewLineString(from, to))
	f.Properties["orientation"] = orientation
	return f
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
