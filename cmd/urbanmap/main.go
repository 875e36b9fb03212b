package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/beetlebugorg/urbanmap/internal/config"
	"github.com/beetlebugorg/urbanmap/internal/logging"
	"github.com/beetlebugorg/urbanmap/internal/server"
	"github.com/beetlebugorg/urbanmap/pkg/geo"
	"github.com/beetlebugorg/urbanmap/pkg/grid"
	"github.com/beetlebugorg/urbanmap/pkg/index"
	"github.com/beetlebugorg/urbanmap/pkg/parse"
)

const usage = `usage: urbanmap <command> [flags] [args]

commands:
  csv FILE          parse a lat/lon table into a polygon (FILE "-" reads stdin)
  wkt FILE          extract POLYGON and MULTIPOLYGON literals
  load FILE...      parse many .csv/.tsv/.txt/.wkt files (zip://a.zip!b.wkt works)
  grid              generate grid lines
  normalize FILE    shift GeoJSON longitudes next to -center
  index FILE        replace GeoJSON polygons with bbox placeholders
  serve             run the HTTP API
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "csv":
		err = runCSV(cfg, args)
	case "wkt":
		err = runWKT(cfg, args)
	case "load":
		err = runLoad(cfg, args)
	case "grid":
		err = runGrid(cfg, args)
	case "normalize":
		err = runNormalize(args)
	case "index":
		err = runIndex(args)
	case "serve":
		err = runServe(cfg, args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		slog.Error(cmd+" failed", "error", err)
		os.Exit(1)
	}
}

func runCSV(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("csv", flag.ExitOnError)
	noRegion := fs.Bool("no-region", false, "accept coordinates outside the configured region")
	fs.Parse(args)

	text, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := cfg.ParseOptions()
	if *noRegion {
		opts.Region = nil
	}
	res := parse.NewParser(opts).ParseLatLonCSV(text)
	logWarnings(res.Warnings)
	return writeJSON(res.FeatureCollection())
}

func runWKT(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("wkt", flag.ExitOnError)
	fs.Parse(args)

	text, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}

	fc := parse.NewParser(cfg.ParseOptions()).ParseWKT(text)
	if fc.Len() == 0 {
		logWarnings([]string{parse.WarningNoWKT})
	}
	return writeJSON(fc)
}

func runLoad(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	workers := fs.Int("workers", cfg.Loader.Workers, "loader goroutines (0 = one per CPU)")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("load needs at least one file")
	}

	opts := cfg.LoadOptions()
	if *workers > 0 {
		opts.Workers = *workers
	}
	opts.ErrorLog = logging.Writer(slog.Default(), slog.LevelWarn)
	opts.Progress = func(loaded, total int) {
		slog.Debug("loading files", "loaded", loaded, "total", total)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	p := parse.NewParser(cfg.ParseOptions())
	loaded, errs := parse.LoadFilesParallelContext(ctx, fs.Args(), p, opts)
	if !opts.SkipErrors && len(errs) > 0 {
		return errs[0]
	}

	out := geo.NewFeatureCollection()
	for _, l := range loaded {
		for _, w := range l.Warnings {
			slog.Warn(w, "path", l.Path)
		}
		for _, f := range l.Features.Features {
			f.Properties["source"] = l.Path
			out = out.Append(f)
		}
	}
	slog.Info("files loaded", "files", len(loaded), "failed", len(errs), "features", out.Len(), "took", time.Since(start).String())
	return writeJSON(out)
}

func runGrid(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("grid", flag.ExitOnError)
	bbox := fs.String("bbox", "", "west,south,east,north (default map.bounds)")
	cellKm := fs.Float64("cell-km", cfg.Grid.CellSizeKm, "cell size in kilometers")
	refLat := fs.Float64("ref-lat", 0, "reference latitude for the geographic model (default bbox center)")
	align := fs.Bool("align", cfg.Grid.AlignGlobal, "snap lines to multiples of the cell size")
	padding := fs.Int("padding", cfg.Grid.PaddingCells, "extra cells on every side")
	model := fs.String("model", cfg.Grid.Model, "projected or geographic")
	fs.Parse(args)

	bounds := cfg.MapBounds()
	if *bbox != "" {
		b, err := parseBBox(*bbox)
		if err != nil {
			return err
		}
		bounds = b
	}
	m, err := grid.ParseModel(*model)
	if err != nil {
		return err
	}

	spec := grid.Spec{
		Bounds:              bounds,
		CellSizeKm:          *cellKm,
		ReferenceLatitude:   (bounds.MinLat + bounds.MaxLat) / 2,
		AlignToGlobalOrigin: *align,
		PaddingCells:        *padding,
		Model:               m,
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "ref-lat" {
			spec.ReferenceLatitude = *refLat
		}
	})

	fc, err := grid.Generate(spec)
	if err != nil {
		return err
	}
	slog.Debug("grid generated", "lines", fc.Len(), "model", m.String())
	return writeJSON(fc)
}

func runNormalize(args []string) error {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	center := fs.Float64("center", 0, "longitude the output is centered on")
	fs.Parse(args)

	fc, err := readFeatures(fs.Arg(0))
	if err != nil {
		return err
	}
	return writeJSON(geo.NormalizeToCenter(fc, *center))
}

func runIndex(args []string) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	pick := fs.String("pick", "", "lon,lat: print only the detailed features containing the point")
	fs.Parse(args)

	fc, err := readFeatures(fs.Arg(0))
	if err != nil {
		return err
	}
	idx := index.IndexByBBox(fc)
	slog.Debug("features indexed", "indexed", idx.Len(), "input", fc.Len())

	if *pick == "" {
		return writeJSON(idx.Placeholders())
	}
	parts := strings.Split(*pick, ",")
	if len(parts) != 2 {
		return fmt.Errorf("pick must be lon,lat, got %q", *pick)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return fmt.Errorf("pick longitude: %w", err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return fmt.Errorf("pick latitude: %w", err)
	}
	return writeJSON(idx.Promote(idx.Pick(lon, lat)))
}

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", cfg.Server.Port, "listen port")
	fs.Parse(args)

	app := server.New(server.NewDependencies(cfg))

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", *port)
		slog.Info("API server starting", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

func readInput(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("missing input file")
	}
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func readFeatures(path string) (geo.FeatureCollection, error) {
	text, err := readInput(path)
	if err != nil {
		return geo.FeatureCollection{}, err
	}
	fc, err := geo.UnmarshalFeatureCollection([]byte(text))
	if err != nil {
		return fc, err
	}
	return fc, geo.ValidateFeatureCollection(fc)
}

func parseBBox(raw string) (geo.BoundingBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return geo.BoundingBox{}, fmt.Errorf("bbox must be west,south,east,north, got %q", raw)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geo.BoundingBox{}, fmt.Errorf("bbox: %w", err)
		}
		v[i] = f
	}
	return geo.NewBoundingBox(geo.Coordinate{v[0], v[1]}, geo.Coordinate{v[2], v[3]}), nil
}

func logWarnings(warnings []string) {
	for _, w := range warnings {
		slog.Warn(w)
	}
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
