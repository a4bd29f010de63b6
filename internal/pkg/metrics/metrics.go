package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RewardsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "droppu",
		Name:      "rewards_granted_total",
		Help:      "Coins credited to balances, by ledger source.",
	}, []string{"source"})

	ReferralAccruals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "droppu",
		Name:      "referral_accruals_total",
		Help:      "Pending referral rewards created, by tier.",
	}, []string{"tier"})

	ReferralClaims = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "droppu",
		Name:      "referral_claims_total",
		Help:      "Successful pending reward claims.",
	})

	SessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "droppu",
		Name:      "game_sessions_ended_total",
		Help:      "Game sessions completed, by game type.",
	}, []string{"game_type"})

	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "droppu",
		Name:      "payments_total",
		Help:      "Stars payments, by resulting status.",
	}, []string{"status"})
)
