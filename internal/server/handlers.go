package server

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/beetlebugorg/urbanmap/internal/metrics"
	"github.com/beetlebugorg/urbanmap/pkg/geo"
	"github.com/beetlebugorg/urbanmap/pkg/grid"
	"github.com/beetlebugorg/urbanmap/pkg/index"
	"github.com/beetlebugorg/urbanmap/pkg/parse"
)

// HealthHandler reports liveness and grid cache usage.
func HealthHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats := deps.Grids.Stats()
		return c.JSON(fiber.Map{
			"status": "ok",
			"grid_cache": fiber.Map{
				"entries":     stats.Entries,
				"max_entries": stats.MaxEntries,
				"lines":       stats.Lines,
				"hits":        stats.Hits,
				"misses":      stats.Misses,
			},
		})
	}
}

// ParseCSVHandler parses a latitude/longitude table from the request body.
//
//	POST /v1/parse/csv
//	lat,lon
//	25.6,-100.3
//	...
func ParseCSVHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := deps.Parser.ParseLatLonCSV(string(c.Body()))
		fc := res.FeatureCollection()
		metrics.RecordParse("csv", fc.Len(), len(res.Warnings))

		coords := res.Coords
		if coords == nil {
			coords = []geo.Coordinate{}
		}
		return c.JSON(fiber.Map{
			"coords":   coords,
			"warnings": nonNil(res.Warnings),
			"features": fc,
		})
	}
}

// ParseWKTHandler extracts POLYGON and MULTIPOLYGON literals from the
// request body.
func ParseWKTHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fc := deps.Parser.ParseWKT(string(c.Body()))

		var warnings []string
		if fc.Len() == 0 {
			warnings = append(warnings, parse.WarningNoWKT)
		}
		metrics.RecordParse("wkt", fc.Len(), len(warnings))

		return c.JSON(fiber.Map{
			"warnings": nonNil(warnings),
			"features": fc,
		})
	}
}

// GridHandler generates grid lines.
//
//	GET /v1/grid?bbox=w,s,e,n&cell_km=1.5&ref_lat=25.6&align=true&padding=1&model=projected
//
// Omitted parameters take the configured defaults; bbox defaults to the map
// bounds. The X-Cache header reports HIT or MISS.
func GridHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		spec, err := gridSpec(c, deps)
		if err != nil {
			return err
		}

		fc, hit, err := deps.Grids.Get(spec)
		if err != nil {
			return badRequest("%v", err)
		}
		metrics.RecordCache("grid", hit)
		if !hit {
			metrics.GridLines.Observe(float64(fc.Len()))
		}

		if hit {
			c.Set("X-Cache", "HIT")
		} else {
			c.Set("X-Cache", "MISS")
		}
		return c.JSON(fc)
	}
}

func gridSpec(c *fiber.Ctx, deps *Dependencies) (grid.Spec, error) {
	cfg := deps.Config
	spec := grid.Spec{
		Bounds:              cfg.MapBounds(),
		CellSizeKm:          cfg.Grid.CellSizeKm,
		AlignToGlobalOrigin: cfg.Grid.AlignGlobal,
		PaddingCells:        cfg.Grid.PaddingCells,
		Model:               cfg.GridModel(),
	}

	if raw := c.Query("bbox"); raw != "" {
		b, err := parseBBox(raw)
		if err != nil {
			return spec, err
		}
		spec.Bounds = b
	}
	spec.ReferenceLatitude = (spec.Bounds.MinLat + spec.Bounds.MaxLat) / 2

	var err error
	if spec.CellSizeKm, err = queryFloat(c, "cell_km", spec.CellSizeKm); err != nil {
		return spec, err
	}
	if spec.ReferenceLatitude, err = queryFloat(c, "ref_lat", spec.ReferenceLatitude); err != nil {
		return spec, err
	}
	if raw := c.Query("align"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return spec, badRequest("align must be true or false, got %q", raw)
		}
		spec.AlignToGlobalOrigin = v
	}
	if raw := c.Query("padding"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return spec, badRequest("padding must be an integer, got %q", raw)
		}
		spec.PaddingCells = v
	}
	if raw := c.Query("model"); raw != "" {
		m, err := grid.ParseModel(raw)
		if err != nil {
			return spec, badRequest("%v", err)
		}
		spec.Model = m
	}
	return spec, nil
}

// NormalizeHandler shifts longitudes of a GeoJSON FeatureCollection to the
// world copy nearest center.
//
//	POST /v1/normalize?center=-100.3
func NormalizeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("center") == "" {
			return badRequest("center is required")
		}
		center, err := queryFloat(c, "center", 0)
		if err != nil {
			return err
		}

		fc, err := decodeFeatures(c)
		if err != nil {
			return err
		}
		return c.JSON(geo.NormalizeToCenter(fc, center))
	}
}

// IndexHandler replaces the polygons of a GeoJSON FeatureCollection with
// bbox placeholders.
//
//	POST /v1/index?bbox=w,s,e,n&pick=lon,lat
//
// The response carries the placeholders and the detailed features in the
// same order. With bbox, "visible" lists the ids intersecting it. With pick,
// "picked" lists the ids whose outline contains the point and "promoted"
// holds their detailed features.
func IndexHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fc, err := decodeFeatures(c)
		if err != nil {
			return err
		}

		idx := index.IndexByBBox(fc)
		metrics.FeaturesIndexed.Add(float64(idx.Len()))

		placeholders := idx.Placeholders()
		ids := make([]string, 0, placeholders.Len())
		for _, p := range placeholders.Features {
			id, _ := p.Property(index.PropertyID)
			ids = append(ids, id.(string))
		}

		resp := fiber.Map{
			"ids":          ids,
			"placeholders": placeholders,
			"details":      idx.Promote(ids),
		}

		if raw := c.Query("bbox"); raw != "" {
			b, err := parseBBox(raw)
			if err != nil {
				return err
			}
			resp["visible"] = idx.Query(b)
		}
		if raw := c.Query("pick"); raw != "" {
			lon, lat, err := parsePoint(raw)
			if err != nil {
				return err
			}
			picked := idx.Pick(lon, lat)
			resp["picked"] = picked
			resp["promoted"] = idx.Promote(picked)
		}

		return c.JSON(resp)
	}
}

// ClampViewHandler keeps a map view inside the configured bounds and zoom
// range.
func ClampViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v geo.ViewState
		if err := json.Unmarshal(c.Body(), &v); err != nil {
			return badRequest("invalid view state: %v", err)
		}

		cfg := deps.Config
		bounds := cfg.MapBounds()
		fallback := geo.ViewState{
			Longitude: (bounds.MinLon + bounds.MaxLon) / 2,
			Latitude:  (bounds.MinLat + bounds.MaxLat) / 2,
			Zoom:      cfg.Map.MinZoom,
		}
		return c.JSON(geo.ClampView(v, fallback, bounds, cfg.Map.MinZoom, cfg.Map.MaxZoom))
	}
}

func decodeFeatures(c *fiber.Ctx) (geo.FeatureCollection, error) {
	fc, err := geo.UnmarshalFeatureCollection(c.Body())
	if err != nil {
		return fc, badRequest("%v", err)
	}
	if err := geo.ValidateFeatureCollection(fc); err != nil {
		return fc, badRequest("%v", err)
	}
	return fc, nil
}

func parseBBox(raw string) (geo.BoundingBox, error) {
	v, err := floats(raw, 4)
	if err != nil {
		return geo.BoundingBox{}, badRequest("bbox must be west,south,east,north: %v", err)
	}
	return geo.NewBoundingBox(geo.Coordinate{v[0], v[1]}, geo.Coordinate{v[2], v[3]}), nil
}

func parsePoint(raw string) (lon, lat float64, err error) {
	v, err := floats(raw, 2)
	if err != nil {
		return 0, 0, badRequest("pick must be lon,lat: %v", err)
	}
	return v[0], v[1], nil
}

func floats(raw string, n int) ([]float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != n {
		return nil, &strconv.NumError{Func: "ParseFloat", Num: raw, Err: strconv.ErrSyntax}
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &strconv.NumError{Func: "ParseFloat", Num: p, Err: strconv.ErrRange}
		}
		out[i] = v
	}
	return out, nil
}

func queryFloat(c *fiber.Ctx, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, badRequest("%s must be a finite number, got %q", key, raw)
	}
	return v, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
