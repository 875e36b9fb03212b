// Package parser turns free-form text into geometry: delimited latitude and
// longitude tables, and POLYGON or MULTIPOLYGON WKT literals.
package parser

import (
	"strings"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

// Warnings reported by ParseLatLonCSV.
const (
	WarningEmptyInput   = "empty input"
	WarningTooFewPoints = "at least 3 points are required to build a polygon"
)

// DefaultRegion is the area accepted by the tabular parser unless told
// otherwise: latitude [15, 35], longitude [-120, -85].
var DefaultRegion = geo.BoundingBox{MinLon: -120, MinLat: 15, MaxLon: -85, MaxLat: 35}

// CSVOptions configures ParseLatLonCSV.
type CSVOptions struct {
	// Region drops rows whose coordinate falls outside it.
	// Nil accepts every finite coordinate.
	Region *geo.BoundingBox
}

var candidateDelimiters = []rune{',', ';', '\t'}

// Substrings that mark a header cell. "latitud" and "longitud" are covered
// by "lat" and "lon".
var (
	headerMarkers    = []string{"lat", "lon", "lng", "x", "y"}
	latitudeMarkers  = []string{"lat", "y"}
	longitudeMarkers = []string{"lon", "lng", "x"}
)

// ParseLatLonCSV extracts a coordinate ring from delimited lat/lon text.
//
// The delimiter (comma, semicolon or tab) and an optional header row are
// detected automatically. Without a header, column 0 is latitude and column 1
// is longitude. Rows that do not yield two finite numbers inside opts.Region
// are skipped. When three or more coordinates remain the ring is closed.
//
// Problems are reported as warnings, never as an error.
func ParseLatLonCSV(text string, opts CSVOptions) ([]geo.Coordinate, []string) {
	warnings := []string{}
	records := splitRecords(text)
	if len(records) == 0 {
		return []geo.Coordinate{}, append(warnings, WarningEmptyInput)
	}

	delim := detectDelimiter(records)
	latIdx, lonIdx, start := detectColumns(splitDelimited(records[0], delim))

	coords := []geo.Coordinate{}
	for _, rec := range records[start:] {
		fields := splitDelimited(rec, delim)
		if len(fields) < 2 || latIdx >= len(fields) || lonIdx >= len(fields) {
			continue
		}

		lat, ok := parseNumber(fields[latIdx])
		if !ok {
			continue
		}
		lon, ok := parseNumber(fields[lonIdx])
		if !ok {
			continue
		}
		if opts.Region != nil && !opts.Region.Contains(lon, lat) {
			continue
		}
		coords = append(coords, geo.Coordinate{lon, lat})
	}

	if len(coords) < 3 {
		return coords, append(warnings, WarningTooFewPoints)
	}
	return geo.CloseRing(coords), warnings
}

// detectDelimiter scores each candidate by the number of extra fields it
// produces over the first 10 records. Ties go to the earlier candidate.
func detectDelimiter(records []string) rune {
	sample := records
	if len(sample) > 10 {
		sample = sample[:10]
	}

	best, bestScore := candidateDelimiters[0], -1
	for _, d := range candidateDelimiters {
		score := 0
		for _, rec := range sample {
			if n := len(splitDelimited(rec, d)) - 1; n > 0 {
				score += n
			}
		}
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

// detectColumns returns the latitude and longitude column indexes and the
// first data row.
func detectColumns(first []string) (latIdx, lonIdx, start int) {
	tokens := make([]string, len(first))
	for i, t := range first {
		tokens[i] = strings.ToLower(strings.TrimSpace(t))
	}

	if indexOfMarker(tokens, headerMarkers) < 0 {
		return 0, 1, 0
	}

	latIdx = indexOfMarker(tokens, latitudeMarkers)
	if latIdx < 0 {
		latIdx = 0
	}
	lonIdx = indexOfMarker(tokens, longitudeMarkers)
	if lonIdx < 0 {
		lonIdx = 1
	}
	return latIdx, lonIdx, 1
}

func indexOfMarker(tokens, markers []string) int {
	for i, t := range tokens {
		for _, m := range markers {
			if strings.Contains(t, m) {
				return i
			}
		}
	}
	return -1
}
