// Package config loads urbanmap settings from defaults, an optional
// config.yaml, an optional .env file and URBANMAP_* environment variables.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
	"github.com/beetlebugorg/urbanmap/pkg/grid"
	"github.com/beetlebugorg/urbanmap/pkg/parse"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Grid   GridConfig   `mapstructure:"grid"`
	Map    MapConfig    `mapstructure:"map"`
	Region RegionConfig `mapstructure:"region"`
	Loader LoaderConfig `mapstructure:"loader"`
}

type ServerConfig struct {
	Port        int `mapstructure:"port"`
	BodyLimitMB int `mapstructure:"body_limit_mb"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GridConfig holds the defaults applied to grid requests that leave a field out.
type GridConfig struct {
	CellSizeKm   float64 `mapstructure:"cell_size_km"`
	PaddingCells int     `mapstructure:"padding_cells"`
	AlignGlobal  bool    `mapstructure:"align_global"`
	Model        string  `mapstructure:"model"`
	CacheEntries int     `mapstructure:"cache_entries"`
}

// MapConfig describes the area the map view is kept inside.
type MapConfig struct {
	Bounds  []float64 `mapstructure:"bounds"` // west, south, east, north
	MinZoom float64   `mapstructure:"min_zoom"`
	MaxZoom float64   `mapstructure:"max_zoom"`
}

// RegionConfig is the plausibility window applied to tabular coordinates.
type RegionConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	MinLat  float64 `mapstructure:"min_lat"`
	MaxLat  float64 `mapstructure:"max_lat"`
	MinLon  float64 `mapstructure:"min_lon"`
	MaxLon  float64 `mapstructure:"max_lon"`
}

type LoaderConfig struct {
	Workers    int  `mapstructure:"workers"`
	SkipErrors bool `mapstructure:"skip_errors"`
}

// Load reads configuration. A .env file in the working directory, when
// present, is loaded into the environment first; variables already set win.
func Load() (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()
	setDefaults(v)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: URBANMAP_GRID_CELL_SIZE_KM → grid.cell_size_km
	v.SetEnvPrefix("URBANMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	region := parse.DefaultRegion()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit_mb", 16)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("grid.cell_size_km", 1.5)
	v.SetDefault("grid.padding_cells", 1)
	v.SetDefault("grid.align_global", true)
	v.SetDefault("grid.model", grid.ModelProjected.String())
	v.SetDefault("grid.cache_entries", 64)
	v.SetDefault("map.bounds", []float64{-100.43, 25.55, -100.05, 25.78})
	v.SetDefault("map.min_zoom", 12)
	v.SetDefault("map.max_zoom", 20)
	v.SetDefault("region.enabled", true)
	v.SetDefault("region.min_lat", region.MinLat)
	v.SetDefault("region.max_lat", region.MaxLat)
	v.SetDefault("region.min_lon", region.MinLon)
	v.SetDefault("region.max_lon", region.MaxLon)
	v.SetDefault("loader.workers", 0)
	v.SetDefault("loader.skip_errors", true)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration values are present and sane.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.BodyLimitMB <= 0 {
		errs = append(errs, "server.body_limit_mb must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Grid.CellSizeKm <= 0 || math.IsNaN(c.Grid.CellSizeKm) || math.IsInf(c.Grid.CellSizeKm, 0) {
		errs = append(errs, fmt.Sprintf("grid.cell_size_km must be positive, got %v", c.Grid.CellSizeKm))
	}
	if c.Grid.PaddingCells < 0 {
		errs = append(errs, "grid.padding_cells must not be negative")
	}
	if _, err := grid.ParseModel(c.Grid.Model); err != nil {
		errs = append(errs, fmt.Sprintf("grid.model: %v", err))
	}
	if len(c.Map.Bounds) != 4 {
		errs = append(errs, fmt.Sprintf("map.bounds needs 4 values (west, south, east, north), got %d", len(c.Map.Bounds)))
	} else if b := c.MapBounds(); !b.Valid() {
		errs = append(errs, "map.bounds must be finite")
	}
	if c.Map.MinZoom > c.Map.MaxZoom {
		errs = append(errs, fmt.Sprintf("map.min_zoom %v exceeds map.max_zoom %v", c.Map.MinZoom, c.Map.MaxZoom))
	}
	if c.Region.Enabled && (c.Region.MinLat > c.Region.MaxLat || c.Region.MinLon > c.Region.MaxLon) {
		errs = append(errs, "region min values must not exceed max values")
	}
	if c.Loader.Workers < 0 {
		errs = append(errs, "loader.workers must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// MapBounds returns map.bounds as a bounding box. Call after Validate.
func (c *Config) MapBounds() geo.BoundingBox {
	if len(c.Map.Bounds) != 4 {
		return geo.BoundingBox{}
	}
	b := c.Map.Bounds
	return geo.NewBoundingBox(geo.Coordinate{b[0], b[1]}, geo.Coordinate{b[2], b[3]})
}

// GridModel returns the parsed grid.model value.
func (c *Config) GridModel() grid.Model {
	m, _ := grid.ParseModel(c.Grid.Model)
	return m
}

// ParseOptions builds parser options from the region settings.
func (c *Config) ParseOptions() parse.ParseOptions {
	if !c.Region.Enabled {
		return parse.ParseOptions{}
	}
	return parse.ParseOptions{Region: &geo.BoundingBox{
		MinLon: c.Region.MinLon,
		MinLat: c.Region.MinLat,
		MaxLon: c.Region.MaxLon,
		MaxLat: c.Region.MaxLat,
	}}
}

// LoadOptions builds loader options from the loader settings.
func (c *Config) LoadOptions() parse.LoadOptions {
	opts := parse.DefaultLoadOptions()
	if c.Loader.Workers > 0 {
		opts.Workers = c.Loader.Workers
	}
	opts.SkipErrors = c.Loader.SkipErrors
	return opts
}
