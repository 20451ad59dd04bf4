package console

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/libradesk/libradesk/internal/outcome"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "libradesk",
		Subsystem: "console",
		Name:      "requests_total",
		Help:      "Console requests by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "libradesk",
		Subsystem: "console",
		Name:      "request_duration_seconds",
		Help:      "Console request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	operationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "libradesk",
		Subsystem: "console",
		Name:      "operation_failures_total",
		Help:      "Failed operations by outcome reason.",
	}, []string{"reason"})
)

func observeFailure(reason outcome.Reason) {
	operationFailures.WithLabelValues(string(reason)).Inc()
}

// MetricsMiddleware records per-route request counts and latency.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler serves the prometheus scrape endpoint.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
