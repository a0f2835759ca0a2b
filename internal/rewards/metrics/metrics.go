package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EpochsCreated prometheus.Counter
	Claims        prometheus.Counter
	ClaimedAmount prometheus.Counter
	ExternalMints prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		EpochsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hastra_rewards_epochs_created_total",
			Help: "Total rewards epochs published",
		}),
		Claims: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hastra_rewards_claims_total",
			Help: "Total rewards claims paid out",
		}),
		ClaimedAmount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hastra_rewards_claimed_amount_total",
			Help: "Sum of claimed reward units",
		}),
		ExternalMints: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hastra_rewards_external_mints_total",
			Help: "Total mints performed for the allowed external caller",
		}),
	}
}

func (m *Metrics) ObserveEpochCreated() {
	m.EpochsCreated.Inc()
}

func (m *Metrics) ObserveClaim(amount uint64) {
	m.Claims.Inc()
	m.ClaimedAmount.Add(float64(amount))
}

func (m *Metrics) ObserveExternalMint() {
	m.ExternalMints.Inc()
}
