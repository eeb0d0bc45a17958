package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Business counters.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	BorrowingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_borrowings_total",
			Help: "Borrow requests by outcome",
		},
		[]string{"outcome"},
	)

	ReturnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_returns_total",
			Help: "Return requests by outcome",
		},
		[]string{"outcome"},
	)
)

const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeBorrowed    = "borrowed"
	OutcomeUnavailable = "unavailable"
	OutcomeReturned    = "returned"
	OutcomeNotOpen     = "not_open"
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		LoginsTotal,
		BorrowingsTotal,
		ReturnsTotal,
	)
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RecordRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// RecordRequest is the helper behind Middleware.
func RecordRequest(method, route, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
