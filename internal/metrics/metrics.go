// Package metrics holds the aggregation Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aggregator"

// Metrics records per-provider aggregation and upstream activity.
type Metrics struct {
	requests      *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	returned      *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	upstreamErrs  *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Aggregation requests by provider.",
		}, []string{"provider"}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Malformed upstream records skipped during normalization.",
		}, []string{"provider"}),
		returned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_returned_total",
			Help:      "Records returned in result pages.",
		}, []string{"provider"}),
		fetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Time spent fetching raw upstream records.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		upstreamErrs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Failed upstream fetches.",
		}, []string{"provider"}),
	}
}

func (m *Metrics) ObserveRequest(provider string) {
	m.requests.WithLabelValues(provider).Inc()
}

// ObservePage records the outcome of one aggregation.
func (m *Metrics) ObservePage(provider string, returned, skipped int) {
	m.returned.WithLabelValues(provider).Add(float64(returned))
	m.skipped.WithLabelValues(provider).Add(float64(skipped))
}

// ObserveFetch records an upstream fetch and whether it failed.
func (m *Metrics) ObserveFetch(provider string, took time.Duration, err error) {
	m.fetchDuration.WithLabelValues(provider).Observe(took.Seconds())
	if err != nil {
		m.upstreamErrs.WithLabelValues(provider).Inc()
	}
}
