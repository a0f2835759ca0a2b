package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AdministratorsUpdated *prometheus.CounterVec
	PauseTransitions      *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		AdministratorsUpdated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hastra_vault_administrators_updated_total",
			Help: "Total administrator set replacements, by set",
		}, []string{"set"}),
		PauseTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hastra_vault_pause_transitions_total",
			Help: "Total pause/resume transitions",
		}, []string{"state"}),
	}
}

func (m *Metrics) IncrementAdministratorsUpdated(set string) {
	m.AdministratorsUpdated.WithLabelValues(set).Inc()
}

func (m *Metrics) IncrementPauseTransition(state string) {
	m.PauseTransitions.WithLabelValues(state).Inc()
}
