package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
	"github.com/beetlebugorg/urbanmap/pkg/grid"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Grid.CellSizeKm != 1.5 || cfg.Grid.PaddingCells != 1 || !cfg.Grid.AlignGlobal {
		t.Errorf("unexpected grid defaults: %+v", cfg.Grid)
	}
	if cfg.GridModel() != grid.ModelProjected {
		t.Errorf("expected projected model, got %v", cfg.GridModel())
	}

	want := geo.BoundingBox{MinLon: -100.43, MinLat: 25.55, MaxLon: -100.05, MaxLat: 25.78}
	if got := cfg.MapBounds(); got != want {
		t.Errorf("expected map bounds %+v, got %+v", want, got)
	}

	opts := cfg.ParseOptions()
	if opts.Region == nil {
		t.Fatal("expected region filter enabled by default")
	}
	if opts.Region.MinLat != 15 || opts.Region.MaxLat != 35 || opts.Region.MinLon != -120 || opts.Region.MaxLon != -85 {
		t.Errorf("unexpected default region %+v", *opts.Region)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("URBANMAP_SERVER_PORT", "9090")
	t.Setenv("URBANMAP_GRID_CELL_SIZE_KM", "2.5")
	t.Setenv("URBANMAP_GRID_MODEL", "geographic")
	t.Setenv("URBANMAP_REGION_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Grid.CellSizeKm != 2.5 {
		t.Errorf("expected cell size 2.5, got %v", cfg.Grid.CellSizeKm)
	}
	if cfg.GridModel() != grid.ModelGeographic {
		t.Errorf("expected geographic model, got %v", cfg.GridModel())
	}
	if cfg.ParseOptions().Region != nil {
		t.Error("expected region filter disabled")
	}
}

func TestLoadInvalidEnvironment(t *testing.T) {
	t.Setenv("URBANMAP_GRID_CELL_SIZE_KM", "-1")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "grid.cell_size_km") {
		t.Errorf("expected cell size problem in %q", err)
	}
}

func TestDecodeMapBoundsFromString(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("map.bounds", "0,1,2,3")

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := geo.BoundingBox{MinLon: 0, MinLat: 1, MaxLon: 2, MaxLat: 3}
	if got := cfg.MapBounds(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		v := viper.New()
		setDefaults(v)
		cfg, err := decode(v)
		if err != nil {
			t.Fatalf("decode defaults: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"body limit", func(c *Config) { c.Server.BodyLimitMB = 0 }, "server.body_limit_mb"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"padding", func(c *Config) { c.Grid.PaddingCells = -1 }, "grid.padding_cells"},
		{"model", func(c *Config) { c.Grid.Model = "utm" }, "grid.model"},
		{"bounds length", func(c *Config) { c.Map.Bounds = []float64{1, 2} }, "map.bounds"},
		{"zoom range", func(c *Config) { c.Map.MinZoom = 21 }, "map.min_zoom"},
		{"region", func(c *Config) { c.Region.MinLat = 40 }, "region"},
		{"workers", func(c *Config) { c.Loader.Workers = -2 }, "loader.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err)
			}
		})
	}

	// Several problems are reported at once.
	cfg := valid()
	cfg.Server.Port = -1
	cfg.Grid.PaddingCells = -1
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "server.port") || !strings.Contains(err.Error(), "grid.padding_cells") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}
