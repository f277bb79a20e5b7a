package tasksvc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	factory := promauto.With(reg)
	return &clientMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tasks_client_requests_total",
				Help: "Requests sent to the task service, by operation and response code.",
			},
			[]string{"operation", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tasks_client_request_duration_seconds",
				Help:    "Latency of requests sent to the task service.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.3, 1, 3, 10},
			},
			[]string{"operation"},
		),
	}
}

// observe is a no-op on a nil receiver so unmetered clients need no checks.
func (m *clientMetrics) observe(op, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, code).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
