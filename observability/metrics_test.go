package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestProcessorMetricsObserveTx(t *testing.T) {
	m := newProcessorMetrics()
	m.ObserveTx("join", "committed", 3*time.Millisecond)
	m.ObserveTx("join", "rejected", time.Millisecond)
	m.ObserveTx("", "", 0)

	require.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues("join", "committed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues("join", "rejected")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues("unknown", "unknown")))
	require.Equal(t, 2, testutil.CollectAndCount(m.latency))

	var nilMetrics *processorMetrics
	nilMetrics.ObserveTx("join", "committed", time.Second)
}

func TestEventMetricsNormalisesType(t *testing.T) {
	m := newEventMetrics()
	m.RecordEvent(" Bounty.Created ")
	m.RecordEvent("bounty.created")
	m.RecordEvent("")

	require.Equal(t, 2.0, testutil.ToFloat64(m.emitted.WithLabelValues("bounty.created")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.emitted.WithLabelValues("unknown")))
}

func TestRegistriesAreSingletons(t *testing.T) {
	require.Same(t, ProcessorMetrics(), ProcessorMetrics())
	require.Same(t, Events(), Events())
}
