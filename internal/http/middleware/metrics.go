package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// httpMetrics holds the board's Prometheus collectors. Route labels use the
// registered pattern (/api/posts/:id), never the raw URL.
type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
	size     *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	auth     *prometheus.CounterVec
}

var metrics = newHTTPMetrics(prometheus.DefaultRegisterer)

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	f := promauto.With(reg)
	return &httpMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "board",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "board",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "board",
			Name:      "http_requests_inflight",
			Help:      "Requests currently being served.",
		}),
		size: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "board",
			Name:      "http_response_size_bytes",
			Help:      "Response body size by method and route.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B..4MiB
		}, []string{"method", "route"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "board",
			Name:      "api_errors_total",
			Help:      "Error envelopes by code.",
		}, []string{"code"}),
		auth: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "board",
			Name:      "auth_events_total",
			Help:      "Authentication outcomes: login, login_failed, locked, refresh, missing, invalid, unknown_user.",
		}, []string{"event"}),
	}
}

// RecordAuthEvent counts an authentication outcome decided by a handler.
func RecordAuthEvent(event string) {
	metrics.auth.WithLabelValues(event).Inc()
}

// Metrics observes every request. Mount it outside ErrorMapper so the mapped
// status is what gets counted.
func Metrics() gin.HandlerFunc {
	return metrics.observe
}

func (m *httpMetrics) observe(c *gin.Context) {
	m.inflight.Inc()
	start := time.Now()
	c.Next()
	m.inflight.Dec()

	route := c.FullPath()
	if route == "" {
		route = "unmatched" // keeps URL probes from growing label sets
	}
	method := c.Request.Method

	m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
	m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	if n := c.Writer.Size(); n >= 0 {
		m.size.WithLabelValues(method, route).Observe(float64(n))
	}
}
