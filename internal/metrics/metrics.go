// Package metrics объявляет prometheus-счетчики платформы.
// Сами метрики отдаются через /metrics (см. роуты приложения).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdViews количество засчитанных просмотров рекламы.
	AdViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adrewards_ad_views_total",
		Help: "Total number of credited ad views.",
	})

	// RewardsPaid сумма начислений по типам (ad, referral, daily_reward).
	RewardsPaid = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adrewards_rewards_paid_usdt_total",
		Help: "Total USDT credited to user balances by reward type.",
	}, []string{"type"})

	// SubscriptionsPurchased количество купленных подписок по типам.
	SubscriptionsPurchased = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adrewards_subscriptions_purchased_total",
		Help: "Total number of purchased subscriptions by type.",
	}, []string{"type"})
)
