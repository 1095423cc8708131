package router

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	v1 "github.com/fincontrol/backend/internal/controllers/v1"
	"github.com/fincontrol/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// URLMiddleware stores the public base URL of the API, without a trailing
// slash, for building links.
func URLMiddleware(url *url.URL) gin.HandlerFunc {
	base := strings.TrimSuffix(url.String(), "/")

	return func(c *gin.Context) {
		c.Set(string(models.DBContextURL), base)
		c.Next()
	}
}

const (
	metricsNamespace = "fincontrol"
	metricsSubsystem = "http"

	// Route label for requests that matched no route
	unmatchedRoute = "unmatched"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_total",
			Help:      "HTTP requests by status code, method, route and whether a session was presented.",
		},
		[]string{"code", "method", "route", "session"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latencies in seconds by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served.",
		},
	)
)

var metrics = []prometheus.Collector{
	requestCount,
	requestDuration,
	requestsInFlight,
}

// registerPrometheusMetrics registers the HTTP metrics with the default
// registry. Registering twice is an error.
func registerPrometheusMetrics() error {
	for _, c := range metrics {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}

	return nil
}

func unregisterPrometheusMetrics() bool {
	ok := true
	for _, c := range metrics {
		ok = prometheus.Unregister(c) && ok
	}

	return ok
}

// MetricsMiddleware records the HTTP metrics. Requests are labelled with
// their route template, not the path, so owner and transaction IDs never
// become label values.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestsInFlight.Inc()
		start := time.Now()

		c.Next()

		requestsInFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		session := "anonymous"
		if v1.Authenticated(c) {
			session = "authenticated"
		}

		requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		requestCount.WithLabelValues(strconv.Itoa(c.Writer.Status()), c.Request.Method, route, session).Inc()
	}
}
