package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Deposits             prometheus.Counter
	DepositedAmount      prometheus.Counter
	RedemptionsRequested prometheus.Counter
	RedemptionsCompleted prometheus.Counter
	RedeemedAmount       prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Deposits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hastra_vault_deposits_total",
			Help: "Total completed deposits",
		}),
		DepositedAmount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hastra_vault_deposited_amount_total",
			Help: "Sum of deposited asset units",
		}),
		RedemptionsRequested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hastra_vault_redemptions_requested_total",
			Help: "Total redemption requests accepted",
		}),
		RedemptionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hastra_vault_redemptions_completed_total",
			Help: "Total redemptions completed",
		}),
		RedeemedAmount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hastra_vault_redeemed_amount_total",
			Help: "Sum of redeemed asset units",
		}),
	}
}

func (m *Metrics) ObserveDeposit(amount uint64) {
	m.Deposits.Inc()
	m.DepositedAmount.Add(float64(amount))
}

func (m *Metrics) ObserveRedemptionRequested() {
	m.RedemptionsRequested.Inc()
}

func (m *Metrics) ObserveRedemptionCompleted(amount uint64) {
	m.RedemptionsCompleted.Inc()
	m.RedeemedAmount.Add(float64(amount))
}
