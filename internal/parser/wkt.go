package parser

import (
	"regexp"
	"strings"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

var (
	ringSeparator    = regexp.MustCompile(`\)\s*,\s*\(`)
	polygonSeparator = regexp.MustCompile(`\)\s*\)\s*,\s*\(\s*\(`)
	pointSeparator   = regexp.MustCompile(`\s*,\s*`)
)

// ExtractWKTs finds POLYGON and MULTIPOLYGON literals embedded in free text.
//
// Keywords are matched case-insensitively. A literal runs from its keyword to
// the parenthesis closing the first "(" after it. Scanning resumes after each
// literal and stops at the first keyword with no balanced parenthesis group.
func ExtractWKTs(text string) []string {
	upper := strings.ToUpper(text)
	var out []string

	for idx := 0; idx < len(text); {
		start := earliest(
			strings.Index(upper[idx:], "POLYGON"),
			strings.Index(upper[idx:], "MULTIPOLYGON"),
		)
		if start < 0 {
			break
		}
		start += idx

		open := strings.IndexByte(text[start:], '(')
		if open < 0 {
			break
		}
		end := matchingParen(text, start+open)
		if end < 0 {
			break
		}

		out = append(out, text[start:end+1])
		idx = end + 1
	}
	return out
}

func earliest(a, b int) int {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	case b < a:
		return b
	default:
		return a
	}
}

// matchingParen returns the index of the ")" balancing the "(" at open, or -1.
func matchingParen(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseWKT parses a single POLYGON or MULTIPOLYGON literal.
//
// Each ring of a MULTIPOLYGON becomes its own single-ring polygon, so holes
// are not told apart from separate polygons. ok is false for other geometry
// types, unbalanced input, or a literal without any usable ring.
func ParseWKT(literal string) (feature geo.Feature, ok bool) {
	s := strings.TrimSpace(literal)
	upper := strings.ToUpper(s)

	switch {
	case hasKeyword(upper, "POLYGON"):
		inner, found := outerBody(s)
		if !found {
			return geo.Feature{}, false
		}
		rings := parseRings(inner)
		if len(rings) == 0 {
			return geo.Feature{}, false
		}
		return geo.NewFeature(geo.NewPolygon(rings...)), true

	case hasKeyword(upper, "MULTIPOLYGON"):
		inner, found := outerBody(s)
		if !found {
			return geo.Feature{}, false
		}
		var polygons [][]geo.Ring
		for _, chunk := range polygonSeparator.Split(inner, -1) {
			for _, ring := range parseRings(chunk) {
				polygons = append(polygons, []geo.Ring{ring})
			}
		}
		if len(polygons) == 0 {
			return geo.Feature{}, false
		}
		return geo.NewFeature(geo.NewMultiPolygon(polygons...)), true
	}

	return geo.Feature{}, false
}

// hasKeyword reports whether s starts with keyword followed by optional
// whitespace and "(".
func hasKeyword(s, keyword string) bool {
	if !strings.HasPrefix(s, keyword) {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(s[len(keyword):], " \t\r\n"), "(")
}

// outerBody returns the text between the first "((" and the last "))".
func outerBody(s string) (string, bool) {
	i := strings.Index(s, "((")
	j := strings.LastIndex(s, "))")
	if i < 0 || j <= i {
		return "", false
	}
	return s[i+2 : j], true
}

func parseRings(body string) []geo.Ring {
	var rings []geo.Ring
	for _, text := range ringSeparator.Split(body, -1) {
		text = strings.TrimLeft(text, "() \t\r\n")
		text = strings.TrimRight(text, ") \t\r\n")

		var ring geo.Ring
		for _, pt := range pointSeparator.Split(text, -1) {
			if c, ok := parsePoint(pt); ok {
				ring = append(ring, c)
			}
		}
		if len(ring) > 0 {
			rings = append(rings, ring)
		}
	}
	return rings
}

// parsePoint reads the first two numbers of a whitespace-separated tuple.
func parsePoint(token string) (geo.Coordinate, bool) {
	var nums []float64
	for _, f := range strings.Fields(token) {
		if v, ok := parseNumber(f); ok {
			nums = append(nums, v)
			if len(nums) == 2 {
				return geo.Coordinate{nums[0], nums[1]}, true
			}
		}
	}
	return geo.Coordinate{}, false
}

// ParseWKTs extracts every literal in text and returns one feature per
// literal that parses, in the order found. Features carry empty properties.
func ParseWKTs(text string) geo.FeatureCollection {
	features := []geo.Feature{}
	for _, literal := range ExtractWKTs(text) {
		if f, ok := ParseWKT(literal); ok {
			features = append(features, f)
		}
	}
	return geo.NewFeatureCollection(features...)
}
