package remote

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts store operations and reconnects
type Metrics struct {
	operations *prometheus.CounterVec
	reconnects prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ufs_remote_operations_total",
			Help: "Remote store operations by operation and result",
		}, []string{"op", "result"}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ufs_remote_reconnects_total",
			Help: "Successful reconnects after a store reported no connection",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.operations, m.reconnects} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) reconnected() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}
