package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "urbanmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Parsing metrics, labelled by input format (csv, wkt)
	FeaturesParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanmap",
		Subsystem: "parse",
		Name:      "features_total",
		Help:      "Total features produced by the parsers",
	}, []string{"format"})

	ParseWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanmap",
		Subsystem: "parse",
		Name:      "warnings_total",
		Help:      "Total parser warnings",
	}, []string{"format"})

	// Grid metrics
	GridLines = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "urbanmap",
		Subsystem: "grid",
		Name:      "lines",
		Help:      "Lines per generated grid",
		Buckets:   prometheus.ExponentialBuckets(4, 4, 7),
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanmap",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanmap",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"cache"})

	// Index metrics
	FeaturesIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "urbanmap",
		Subsystem: "index",
		Name:      "features_total",
		Help:      "Total features replaced by bbox placeholders",
	})
)

// RecordParse counts the outcome of one parse call.
func RecordParse(format string, features, warnings int) {
	FeaturesParsed.WithLabelValues(format).Add(float64(features))
	ParseWarnings.WithLabelValues(format).Add(float64(warnings))
}

// RecordCache counts one lookup in the named cache.
func RecordCache(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(StatusCode(c, err))
		path := c.Route().Path // route pattern keeps label cardinality bounded
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// StatusCode is the status the response will carry once err reaches the
// app's error handler. Middleware reading the status right after c.Next()
// must use this, since the error handler runs only after the whole chain
// returns.
func StatusCode(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
