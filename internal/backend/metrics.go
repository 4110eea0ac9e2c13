package backend

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names
const (
	MetricBackendRequestsTotal   = "nhs_backend_requests_total"
	MetricBackendRequestDuration = "nhs_backend_request_duration_seconds"
)

// Metrics records outbound search backend calls. Safe for concurrent use
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates unregistered backend metrics
func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricBackendRequestsTotal,
				Help: "Total number of search backend requests by operation and status",
			},
			[]string{"operation", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricBackendRequestDuration,
				Help:    "Search backend request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
	}
}

// Register registers the collectors with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if err := reg.Register(m.requestsTotal); err != nil {
		return err
	}
	return reg.Register(m.requestDuration)
}

// ObserveRequest records one backend call
func (m *Metrics) ObserveRequest(operation, status string, seconds float64) {
	m.requestsTotal.WithLabelValues(operation, status).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(seconds)
}
