// Package parse provides the public API for turning user-supplied text into
// urbanmap geometry.
//
// Two formats are understood: delimited latitude/longitude tables, which
// become a single polygon ring, and free text with embedded WKT POLYGON or
// MULTIPOLYGON literals. Parsing is best-effort. Malformed rows and literals
// are skipped and reported as warnings rather than errors.
//
//	p := parse.NewParser(parse.DefaultParseOptions())
//	res := p.ParseLatLonCSV(text)
//	for _, w := range res.Warnings {
//	    log.Println(w)
//	}
//	fc := res.FeatureCollection()
package parse

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beetlebugorg/urbanmap/internal/parser"
	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

// WarningNoWKT is reported by ParseFile when a WKT file holds no usable literal.
const WarningNoWKT = "no POLYGON or MULTIPOLYGON literal found"

// Parser parses tabular coordinates and WKT text.
//
// Create a parser with NewParser. Implementations are safe for concurrent use.
type Parser interface {
	// ParseLatLonCSV reads delimited latitude/longitude rows into a closed ring.
	ParseLatLonCSV(text string) Result

	// ParseWKT extracts and parses every POLYGON and MULTIPOLYGON literal in text.
	ParseWKT(text string) geo.FeatureCollection

	// ParseFile reads a file and parses it according to its extension:
	// .csv, .tsv and .txt as coordinate tables, .wkt as WKT text.
	//
	// The path may also be zip://archive.zip!entry.csv to read an entry
	// straight from a zip archive.
	ParseFile(path string) (geo.FeatureCollection, []string, error)
}

// Result is the output of the tabular parser.
type Result struct {
	// Coords holds [lon, lat] pairs in input order. The ring is closed when it
	// has 3 or more points.
	Coords []geo.Coordinate

	// Warnings holds human-readable problems. Empty when parsing went cleanly.
	Warnings []string
}

// FeatureCollection wraps the coordinates as a single polygon feature.
// Returns an empty collection when fewer than 3 coordinates were parsed.
func (r Result) FeatureCollection() geo.FeatureCollection {
	if len(r.Coords) < 3 {
		return geo.NewFeatureCollection()
	}
	return geo.CoordsToPolygonFeatureCollection(r.Coords)
}

// NewParser creates a parser using opts.
//
// Example:
//
//	p := parse.NewParser(parse.ParseOptions{}) // no regional filter
//	fc, warnings, err := p.ParseFile("area.wkt")
func NewParser(opts ParseOptions) Parser {
	return &textParser{opts: opts}
}

type textParser struct {
	opts ParseOptions
}

func (p *textParser) ParseLatLonCSV(text string) Result {
	coords, warnings := parser.ParseLatLonCSV(text, parser.CSVOptions{Region: p.opts.Region})
	return Result{Coords: coords, Warnings: warnings}
}

func (p *textParser) ParseWKT(text string) geo.FeatureCollection {
	return parser.ParseWKTs(text)
}

func (p *textParser) ParseFile(path string) (geo.FeatureCollection, []string, error) {
	name := path
	if strings.HasPrefix(path, "zip://") {
		if i := strings.LastIndex(path, "!"); i >= 0 {
			name = path[i+1:]
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv", ".tsv", ".txt", ".wkt":
	default:
		return geo.FeatureCollection{}, nil, &ErrUnsupportedFormat{Path: path, Ext: ext}
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(path, "zip://") {
		data, err = readZipEntry(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return geo.FeatureCollection{}, nil, err
	}

	if ext == ".wkt" {
		fc := p.ParseWKT(string(data))
		if fc.Len() == 0 {
			return fc, []string{WarningNoWKT}, nil
		}
		return fc, []string{}, nil
	}
	res := p.ParseLatLonCSV(string(data))
	return res.FeatureCollection(), res.Warnings, nil
}

// readZipEntry reads one entry of a zip archive.
// Format: zip:///path/to/file.zip!path/within/zip.csv
func readZipEntry(zipURL string) ([]byte, error) {
	parts := strings.SplitN(strings.TrimPrefix(zipURL, "zip://"), "!", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid zip URL format: %s (expected zip://path!entry)", zipURL)
	}
	zipPath, entryPath := parts[0], parts[1]

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entryPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry: %w", err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read zip entry: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("file not found in zip: %s", entryPath)
}
