package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names
const (
	MetricHTTPRequestDuration = "http_request_duration_seconds"
	MetricHTTPRequestsTotal   = "http_requests_total"
	MetricHTTPResponseSize    = "http_response_size_bytes"
)

// Metrics contains Prometheus collectors for HTTP traffic.
// All operations are thread-safe
type Metrics struct {
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	httpResponseSize    *prometheus.HistogramVec
}

// NewMetrics creates unregistered HTTP metrics; call Register to expose them
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"method", "path", "status"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPResponseSize,
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),
	}
}

// Register registers all collectors with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.httpRequestDuration,
		m.httpRequestsTotal,
		m.httpResponseSize,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveHTTPRequest records one completed request
func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64, responseSize int64) {
	m.httpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// staticRoutes are recorded under their own path
var staticRoutes = map[string]bool{
	"/api/health":               true,
	"/api/organisation-types":   true,
	"/api/search/postcode":      true,
	"/api/search/coordinates":   true,
	"/api/GetContent":           true,
	"/api/GetOrganisationTypes": true,
	"/api/ConvertPostcode":      true,
	"/api/SearchOrganisations":  true,
	"/mcp":                      true,
	"/mcp/tools":                true,
}

// normalizePath maps dynamic segments to route patterns to bound label
// cardinality
func normalizePath(path string) string {
	if staticRoutes[path] {
		return path
	}
	switch {
	case strings.HasPrefix(path, "/api/postcode/"):
		return "/api/postcode/{postcode}"
	case strings.HasPrefix(path, "/api/health-topic/"):
		return "/api/health-topic/{topic}"
	case strings.HasPrefix(path, "/mcp/tools/"):
		return "/mcp/tools/{tool}"
	default:
		return "other"
	}
}

// HTTPMetrics records request metrics. Health, readiness and metrics
// endpoints are excluded
func HTTPMetrics(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/healthz", "/ready", "/metrics":
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			metrics.ObserveHTTPRequest(
				r.Method,
				normalizePath(r.URL.Path),
				strconv.Itoa(rw.statusCode),
				time.Since(start).Seconds(),
				rw.size,
			)
		})
	}
}
