package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests received, partitioned by method, route and status class.",
		},
		[]string{"method", "route", "status_class"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, partitioned by method, route and status class.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5},
		},
		[]string{"method", "route", "status_class"},
	)
)

// Upstream transaction API metrics
var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Calls to the transaction API, partitioned by operation and outcome.",
		},
		[]string{"operation", "outcome"}, // outcome: ok | http_error | not_found | network | breaker_open | auth
	)

	upstreamRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of calls to the transaction API in seconds, partitioned by operation.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5, 10, 15},
		},
		[]string{"operation"},
	)

	upstreamBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "upstream_breaker_state",
			Help: "Circuit breaker state for the transaction API (0=closed, 1=open, 2=half-open).",
		},
	)
)

// Checkout metrics
var (
	checkoutValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_validation_failures_total",
			Help: "Checkout form rejections, partitioned by field.",
		},
		[]string{"field"},
	)

	paymentsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_submitted_total",
			Help: "Checkout submissions sent to the transaction API, partitioned by outcome.",
		},
		[]string{"outcome"}, // accepted | rejected
	)
)

// Sandbox metrics
var (
	sandboxTransactionsSettledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_transactions_settled_total",
			Help: "Transactions settled by the sandbox API, partitioned by final status.",
		},
		[]string{"status"},
	)

	sandboxQueueCurrent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sandbox_queue_current",
			Help: "Current number of pending transactions waiting in the sandbox settlement queue (approximate).",
		},
	)
)

var registerOnce sync.Once

// InitMetrics called on startup. Safe to call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDurationSeconds,
			upstreamRequestsTotal,
			upstreamRequestDurationSeconds,
			upstreamBreakerState,
			checkoutValidationFailuresTotal,
			paymentsSubmittedTotal,
			sandboxTransactionsSettledTotal,
			sandboxQueueCurrent,
		)
	})
}

// PrometheusMiddleware measures one HTTP request: increments counter and observes latency.
// It uses gin.Context.FullPath() to record the *route template* (e.g., /transactions/:id).
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := c.Writer.Status()
		statusClass := fmt.Sprintf("%dxx", status/100)

		httpRequestsTotal.WithLabelValues(method, route, statusClass).Inc()
		httpRequestDurationSeconds.WithLabelValues(method, route, statusClass).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes /metrics in Prometheus text exposition format.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
