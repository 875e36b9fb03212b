package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
	"github.com/beetlebugorg/urbanmap/pkg/grid"
)

func main() {
	monterrey := geo.BoundingBox{MinLon: -100.43, MinLat: 25.55, MaxLon: -100.05, MaxLat: 25.78}

	for _, model := range []grid.Model{grid.ModelProjected, grid.ModelGeographic} {
		fc, err := grid.Generate(grid.Spec{
			Bounds:              monterrey,
			CellSizeKm:          1.5,
			ReferenceLatitude:   25.67,
			AlignToGlobalOrigin: true,
			PaddingCells:        1,
			Model:               model,
		})
		if err != nil {
			log.Fatal(err)
		}

		vertical := 0
		for _, f := range fc.Features {
			if f.Properties["orientation"] == grid.OrientationVertical {
				vertical++
			}
		}
		fmt.Printf("%s: %d vertical, %d horizontal lines\n", model, vertical, fc.Len()-vertical)
	}

	// Grid lines crossing the antimeridian, moved next to the map center
	fc, err := grid.Generate(grid.Spec{
		Bounds:     geo.BoundingBox{MinLon: 178, MinLat: -17, MaxLon: 182, MaxLat: -16},
		CellSizeKm: 50,
		Model:      grid.ModelGeographic,
	})
	if err != nil {
		log.Fatal(err)
	}
	shifted := geo.NormalizeToCenter(fc, -179)
	first := shifted.Features[0].Geometry.LineString[0]
	fmt.Printf("First vertical line now at lon %.2f\n", first.Lon())
}
