package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Transitions *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hastra_vault_freeze_transitions_total",
			Help: "Total freeze/thaw actions applied to holding accounts",
		}, []string{"action"}),
	}
}

func (m *Metrics) IncrementTransition(action string) {
	m.Transitions.WithLabelValues(action).Inc()
}
