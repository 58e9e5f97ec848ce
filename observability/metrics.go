package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type processorMetrics struct {
	transactions *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

var (
	processorMetricsOnce sync.Once
	processorRegistry    *processorMetrics
)

func newProcessorMetrics() *processorMetrics {
	return &processorMetrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bounty",
			Subsystem: "processor",
			Name:      "transactions_total",
			Help:      "Processor transactions segmented by operation and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bounty",
			Subsystem: "processor",
			Name:      "transaction_duration_seconds",
			Help:      "Latency distribution of processor transactions including commit.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// ProcessorMetrics returns the lazily-initialised registry recording
// processor transaction outcomes.
func ProcessorMetrics() *processorMetrics {
	processorMetricsOnce.Do(func() {
		processorRegistry = newProcessorMetrics()
		prometheus.MustRegister(
			processorRegistry.transactions,
			processorRegistry.latency,
		)
	})
	return processorRegistry
}

// ObserveTx records one transaction. Outcome is "committed", "rejected" or
// "commit_failed".
func (m *processorMetrics) ObserveTx(op, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.transactions.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(duration.Seconds())
}
