// Package metrics defines the Prometheus instruments exported by the dispatch
// service. Register must be called once at startup before the /metrics
// endpoint is served.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ClaimsAttemptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_claims_attempted_total",
			Help: "Total number of order claim attempts",
		},
	)

	ClaimConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_claim_conflicts_total",
			Help: "Total number of claim attempts lost to another agent",
		},
	)

	DeliveriesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_deliveries_completed_total",
			Help: "Total number of orders delivered",
		},
	)

	OrdersCancelledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_orders_cancelled_total",
			Help: "Total number of orders cancelled",
		},
	)

	NotificationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_notification_failures_total",
			Help: "Total number of event publishes that failed after commit",
		},
	)

	ClaimDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_claim_duration_seconds",
			Help:    "Duration of the claim transaction",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all dispatch metrics with the default registry.
func Register() {
	prometheus.MustRegister(
		ClaimsAttemptedTotal,
		ClaimConflictsTotal,
		DeliveriesCompletedTotal,
		OrdersCancelledTotal,
		NotificationFailuresTotal,
		ClaimDuration,
	)
}
