package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// BountyMetrics tracks bounty engine activity.
type BountyMetrics struct {
	operations   *prometheus.CounterVec
	custodyMoved *prometheus.CounterVec
	participants prometheus.Histogram
}

var (
	bountyOnce     sync.Once
	bountyRegistry *BountyMetrics
)

// NewBountyMetrics builds an unregistered metrics set. Use Register to expose
// it on a registry, or Bounty for the process-wide instance.
func NewBountyMetrics() *BountyMetrics {
	return &BountyMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bounty_operations_total",
			Help: "Bounty operations by kind and outcome.",
		}, []string{"op", "outcome"}),
		custodyMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bounty_custody_moved_total",
			Help: "Token units moved in or out of bounty custody by operation.",
		}, []string{"op"}),
		participants: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bounty_participants",
			Help:    "Participant ledger size after each ledger mutation.",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		}),
	}
}

// Register adds the collectors to reg.
func (m *BountyMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.operations, m.custodyMoved, m.participants} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Bounty returns the process-wide metrics registered on the default registry.
func Bounty() *BountyMetrics {
	bountyOnce.Do(func() {
		bountyRegistry = NewBountyMetrics()
		prometheus.MustRegister(
			bountyRegistry.operations,
			bountyRegistry.custodyMoved,
			bountyRegistry.participants,
		)
	})
	return bountyRegistry
}

func (m *BountyMetrics) ObserveOperation(op, outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

func (m *BountyMetrics) ObserveCustody(op string, amount uint64) {
	if m == nil {
		return
	}
	m.custodyMoved.WithLabelValues(op).Add(float64(amount))
}

func (m *BountyMetrics) ObserveParticipants(count int) {
	if m == nil {
		return
	}
	m.participants.Observe(float64(count))
}

// OperationsVec exposes the operations counter for tests.
func (m *BountyMetrics) OperationsVec() *prometheus.CounterVec { return m.operations }

// CustodyVec exposes the custody counter for tests.
func (m *BountyMetrics) CustodyVec() *prometheus.CounterVec { return m.custodyMoved }
