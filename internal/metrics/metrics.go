// Package metrics defines the Prometheus collectors of the delivery core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors. Construct with New against the registry
// the /metrics endpoint serves; tests pass a fresh registry.
type Metrics struct {
	// DeliveryEvents counts processed events by kind and outcome.
	DeliveryEvents *prometheus.CounterVec
	// SchedulerTransitions counts automatic lifecycle transitions by action.
	SchedulerTransitions *prometheus.CounterVec
	// WalletTransactions counts wallet ledger entries by type.
	WalletTransactions *prometheus.CounterVec
}

// New registers and returns the collectors.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DeliveryEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ads_delivery_events_total",
			Help: "Delivery events processed, by event kind and outcome.",
		}, []string{"kind", "outcome"}),
		SchedulerTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ads_scheduler_transitions_total",
			Help: "Campaign lifecycle transitions applied by the scheduler.",
		}, []string{"action"}),
		WalletTransactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ads_wallet_transactions_total",
			Help: "Wallet ledger entries appended, by transaction type.",
		}, []string{"type"}),
	}
}
