package parse

import (
	"github.com/beetlebugorg/urbanmap/internal/parser"
	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	// Region drops tabular rows outside the box. Nil disables the filter.
	Region *geo.BoundingBox
}

// DefaultParseOptions returns options restricting tabular input to
// DefaultRegion.
func DefaultParseOptions() ParseOptions {
	region := DefaultRegion()
	return ParseOptions{Region: &region}
}

// DefaultRegion returns the box used by DefaultParseOptions:
// latitude [15, 35], longitude [-120, -85].
func DefaultRegion() geo.BoundingBox {
	return parser.DefaultRegion
}
