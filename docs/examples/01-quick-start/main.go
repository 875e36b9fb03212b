package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/urbanmap/pkg/parse"
)

const sample = `latitud;longitud
25.6866;-100.3161
25.6712;-100.3095
25.6650;-100.3300
`

func main() {
	// Create parser restricted to the default region
	parser := parse.NewParser(parse.DefaultParseOptions())

	// Parse a semicolon-separated table with a Spanish header
	res := parser.ParseLatLonCSV(sample)
	for _, w := range res.Warnings {
		log.Printf("warning: %s", w)
	}

	fmt.Printf("Points: %d (ring closed: %v)\n", len(res.Coords), len(res.Coords) > 0 && res.Coords[0] == res.Coords[len(res.Coords)-1])

	// Print as GeoJSON
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.FeatureCollection()); err != nil {
		log.Fatal(err)
	}
}
