package search

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks search pipeline health. All methods tolerate a nil receiver
// so instrumentation can be left unwired in tests.
type Metrics struct {
	fetchResults  *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	rerankTotal   *prometheus.CounterVec
}

// NewMetrics registers the search collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docnearby",
			Subsystem: "search",
			Name:      "fetch_results_total",
			Help:      "Records returned per source.",
		}, []string{"source"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docnearby",
			Subsystem: "search",
			Name:      "fetch_failures_total",
			Help:      "Failed fetches per source.",
		}, []string{"source"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "docnearby",
			Subsystem: "search",
			Name:      "fetch_duration_seconds",
			Help:      "Fetch latency per source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		rerankTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docnearby",
			Subsystem: "search",
			Name:      "rerank_total",
			Help:      "Rerank attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.fetchResults, m.fetchFailures, m.fetchLatency, m.rerankTotal)
	return m
}

// ObserveFetch records one source fetch. A zero duration skips the latency
// histogram, which keeps the platform-store path out of remote latency.
func (m *Metrics) ObserveFetch(source string, count int, err error, d time.Duration) {
	if m == nil {
		return
	}
	if err != nil {
		m.fetchFailures.WithLabelValues(source).Inc()
		return
	}
	m.fetchResults.WithLabelValues(source).Add(float64(count))
	if d > 0 {
		m.fetchLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// ObserveRerank records one rerank outcome: applied, fallback, or skipped.
func (m *Metrics) ObserveRerank(outcome string) {
	if m == nil {
		return
	}
	m.rerankTotal.WithLabelValues(outcome).Inc()
}
