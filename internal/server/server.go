// Package server exposes the parsers, grid generator and bbox index as a
// JSON HTTP API. Geometry travels as GeoJSON.
package server

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/beetlebugorg/urbanmap/internal/config"
	"github.com/beetlebugorg/urbanmap/internal/metrics"
	"github.com/beetlebugorg/urbanmap/pkg/grid"
	"github.com/beetlebugorg/urbanmap/pkg/parse"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Config *config.Config
	Parser parse.Parser
	Grids  *grid.Cache
}

// NewDependencies wires dependencies from configuration.
func NewDependencies(cfg *config.Config) *Dependencies {
	return &Dependencies{
		Config: cfg,
		Parser: parse.NewParser(cfg.ParseOptions()),
		Grids:  grid.NewCache(cfg.Grid.CacheEntries),
	}
}

// New creates the fiber app with all routes registered.
func New(deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             deps.Config.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler:          errorHandler,
	})
	SetupRoutes(app, deps)
	return app
}

// SetupRoutes registers all routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(recover.New())

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(requestid.New())
	app.Use(AccessLogMiddleware())

	app.Get("/v1/health", HealthHandler(deps))

	v1 := app.Group("/v1")
	v1.Post("/parse/csv", ParseCSVHandler(deps))
	v1.Post("/parse/wkt", ParseWKTHandler(deps))
	v1.Get("/grid", GridHandler(deps))
	v1.Post("/normalize", NormalizeHandler(deps))
	v1.Post("/index", IndexHandler(deps))
	v1.Post("/view/clamp", ClampViewHandler(deps))
}

// errorHandler renders every error as {"error": message}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// badRequest wraps err as a 400 response.
func badRequest(format string, args ...interface{}) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(format, args...))
}
