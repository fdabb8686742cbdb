package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type AdminMetrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type MetricsRegistry struct {
	Admin *AdminMetrics
}

var Registry *MetricsRegistry

func init() {
	Registry = &MetricsRegistry{
		Admin: &AdminMetrics{
			Requests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "kong_admin_requests_total",
				Help: "The total number of requests sent to the Kong admin API",
			}, []string{"method", "endpoint", "code"}),
			RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "kong_admin_request_duration_seconds",
				Help:    "Latency of requests sent to the Kong admin API",
				Buckets: prometheus.DefBuckets,
			}, []string{"method", "endpoint"}),
		},
	}
}
