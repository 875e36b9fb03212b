package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
	"github.com/beetlebugorg/urbanmap/pkg/grid"
	"github.com/beetlebugorg/urbanmap/pkg/parse"
)

func safeParseFile(path string) (geo.FeatureCollection, error) {
	parser := parse.NewParser(parse.DefaultParseOptions())

	fc, warnings, err := parser.ParseFile(path)
	if err != nil {
		// Check if file exists
		if errors.Is(err, os.ErrNotExist) {
			return fc, fmt.Errorf("file not found: %s", path)
		}

		var formatErr *parse.ErrUnsupportedFormat
		if errors.As(err, &formatErr) {
			return fc, fmt.Errorf("cannot read %q files", formatErr.Ext)
		}
		return fc, err
	}

	// Parsing is best-effort: problems come back as warnings
	for _, w := range warnings {
		log.Printf("Warning: %s: %s", path, w)
	}
	return fc, nil
}

func main() {
	if _, err := safeParseFile("area.shp"); err != nil {
		log.Printf("Expected error: %v", err)
	}
	if _, err := safeParseFile("missing.wkt"); err != nil {
		log.Printf("Expected error: %v", err)
	}

	// Invalid grid requests name the offending field
	_, err := grid.Generate(grid.Spec{CellSizeKm: 0})
	var specErr *grid.ErrInvalidSpec
	if errors.As(err, &specErr) {
		fmt.Printf("Invalid grid field: %s (%s)\n", specErr.Field, specErr.Reason)
	}
}
