package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type LaunchMetrics struct {
	depositsTotal    prometheus.Counter
	depositVolume    prometheus.Counter
	claimsTotal      prometheus.Counter
	claimVolume      prometheus.Counter
	refundsTotal     prometheus.Counter
	tranchesReleased prometheus.Counter
	rewardsRouted    *prometheus.CounterVec
	listingsByStatus *prometheus.GaugeVec
}

var (
	launchOnce     sync.Once
	launchRegistry *LaunchMetrics
)

// Launch returns the metrics registry tracking ledger activity.
func Launch() *LaunchMetrics {
	launchOnce.Do(func() {
		launchRegistry = &LaunchMetrics{
			depositsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "launch_deposits_total",
				Help: "Count of accepted backer deposits.",
			}),
			depositVolume: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "launch_deposit_volume",
				Help: "Cumulative principal accepted across all listings.",
			}),
			claimsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "launch_claims_total",
				Help: "Count of successful reward claims.",
			}),
			claimVolume: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "launch_claim_volume",
				Help: "Cumulative rewards paid out to pass holders.",
			}),
			refundsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "launch_refunds_total",
				Help: "Count of refunds paid on cancelled listings.",
			}),
			tranchesReleased: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "launch_tranches_released_total",
				Help: "Count of vesting tranches released to operators.",
			}),
			rewardsRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "launch_rewards_routed_total",
				Help: "Cumulative routed revenue segmented by destination.",
			}, []string{"destination"}),
			listingsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "launch_listings",
				Help: "Number of listings per lifecycle status.",
			}, []string{"status"}),
		}
		prometheus.MustRegister(
			launchRegistry.depositsTotal,
			launchRegistry.depositVolume,
			launchRegistry.claimsTotal,
			launchRegistry.claimVolume,
			launchRegistry.refundsTotal,
			launchRegistry.tranchesReleased,
			launchRegistry.rewardsRouted,
			launchRegistry.listingsByStatus,
		)
	})
	return launchRegistry
}

func approximate(amount *big.Int) float64 {
	if amount == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(amount).Float64()
	return f
}

// RecordDeposit books one accepted deposit.
func (m *LaunchMetrics) RecordDeposit(amount *big.Int) {
	if m == nil {
		return
	}
	m.depositsTotal.Inc()
	m.depositVolume.Add(approximate(amount))
}

// RecordClaim books one successful claim.
func (m *LaunchMetrics) RecordClaim(amount *big.Int) {
	if m == nil {
		return
	}
	m.claimsTotal.Inc()
	m.claimVolume.Add(approximate(amount))
}

// RecordRefund books one paid refund.
func (m *LaunchMetrics) RecordRefund() {
	if m == nil {
		return
	}
	m.refundsTotal.Inc()
}

// RecordTrancheRelease books one released tranche.
func (m *LaunchMetrics) RecordTrancheRelease() {
	if m == nil {
		return
	}
	m.tranchesReleased.Inc()
}

// RecordRoutedRewards books routed revenue by destination.
func (m *LaunchMetrics) RecordRoutedRewards(destination string, amount *big.Int) {
	if m == nil {
		return
	}
	m.rewardsRouted.WithLabelValues(destination).Add(approximate(amount))
}

// SetListingCount reports the number of listings in one lifecycle status.
func (m *LaunchMetrics) SetListingCount(status string, count int) {
	if m == nil {
		return
	}
	m.listingsByStatus.WithLabelValues(status).Set(float64(count))
}
