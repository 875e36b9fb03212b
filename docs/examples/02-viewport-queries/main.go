package main

import (
	"fmt"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
	"github.com/beetlebugorg/urbanmap/pkg/index"
	"github.com/beetlebugorg/urbanmap/pkg/parse"
)

const districts = `
Centro:    POLYGON((-100.33 25.66, -100.30 25.66, -100.30 25.69, -100.33 25.69, -100.33 25.66))
Obispado:  POLYGON((-100.36 25.67, -100.34 25.67, -100.35 25.69, -100.36 25.67))
San Pedro: MULTIPOLYGON(((-100.42 25.64, -100.38 25.64, -100.38 25.67, -100.42 25.64)))
`

func main() {
	fc := parse.NewParser(parse.ParseOptions{}).ParseWKT(districts)

	// Swap detailed outlines for bbox placeholders
	idx := index.IndexByBBox(fc)
	fmt.Printf("Indexed %d of %d features\n", idx.Len(), fc.Len())

	// Define viewport (downtown Monterrey)
	viewport := geo.BoundingBox{
		MinLon: -100.345, MaxLon: -100.29,
		MinLat: 25.65, MaxLat: 25.70,
	}
	fmt.Printf("Visible: %v\n", idx.Query(viewport))

	// A click inside the Obispado bbox but outside its triangle picks nothing
	for _, click := range []geo.Coordinate{{-100.31, 25.675}, {-100.359, 25.688}} {
		ids := idx.Pick(click.Lon(), click.Lat())
		fmt.Printf("Click %v: %v\n", click, ids)
		for _, f := range idx.Promote(ids).Features {
			fmt.Printf("  detail: %s with %d vertices\n", f.Geometry.Type, f.Geometry.CoordinateCount())
		}
	}
}
