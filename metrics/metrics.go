// Package metrics exposes prometheus counters for the swap service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fusion_quotes_served_total",
		Help: "Quotes returned to callers.",
	})

	QuotesDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fusion_quotes_degraded_total",
		Help: "Quotes that fell back to a 1:1 rate after a price-lookup failure.",
	})

	SwapsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fusion_swaps_executed_total",
		Help: "Source-chain HTLC locks submitted, by source chain family.",
	}, []string{"family"})

	SwapsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fusion_swaps_failed_total",
		Help: "Swap executions that failed before the lock, by source chain family.",
	}, []string{"family"})

	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fusion_post_lock_persistence_failures_total",
		Help: "Status or resolver calls that failed after an on-chain lock.",
	})
)
