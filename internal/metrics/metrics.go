package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	operations *prometheus.CounterVec
	vipLookups *prometheus.CounterVec
	completed  prometheus.Counter
}

var (
	once     sync.Once
	registry *Metrics
)

// Default returns the process-wide metrics, registering them on first use.
func Default() *Metrics {
	once.Do(func() {
		registry = &Metrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "reservation",
				Name:      "operations_total",
				Help:      "Reservation operations segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			vipLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "vip",
				Name:      "lookups_total",
				Help:      "VIP provider lookups segmented by outcome.",
			}, []string{"outcome"}),
			completed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "reservation",
				Name:      "completed_total",
				Help:      "Reservations moved to completed by the maintenance sweep.",
			}),
		}
		prometheus.MustRegister(registry.operations, registry.vipLookups, registry.completed)
	})
	return registry
}

// Operation records one reservation operation. Safe on a nil receiver.
func (m *Metrics) Operation(op, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) VIPLookup(outcome string) {
	if m == nil {
		return
	}
	m.vipLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Completed(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.completed.Add(float64(n))
}
