package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	mutationsTotal      *prometheus.CounterVec
	couponSnapshots     prometheus.Counter
	couponListSize      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		mutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_mutations_total",
				Help: "Account mutations by operation and result",
			},
			[]string{"operation", "result"},
		),
		couponSnapshots: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "account_coupon_snapshots_total",
				Help: "Live coupon snapshots applied to account pages",
			},
		),
		couponListSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "account_coupon_snapshot_size",
				Help:    "Number of coupons per live snapshot",
				Buckets: prometheus.LinearBuckets(0, 5, 10),
			},
		),
	}
	reg.MustRegister(m.httpRequestsTotal, m.httpRequestDuration, m.mutationsTotal, m.couponSnapshots, m.couponListSize)
	return m
}

// Handler records request count and duration. The path label is the route
// template so ids do not explode label cardinality.
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Mutation counts an account mutation by outcome.
func (m *Metrics) Mutation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.mutationsTotal.WithLabelValues(operation, result).Inc()
}

// CouponSnapshot counts a live coupon snapshot.
func (m *Metrics) CouponSnapshot(size int) {
	m.couponSnapshots.Inc()
	m.couponListSize.Observe(float64(size))
}
