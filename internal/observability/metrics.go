// Package observability exposes Prometheus metrics for the settlement engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SalesCreated counts sales persisted by the aggregate builder.
	SalesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tillpoint",
		Name:      "sales_created_total",
		Help:      "Number of sales created.",
	})

	// Settlements counts settlement attempts by method and outcome.
	Settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tillpoint",
		Name:      "settlements_total",
		Help:      "Settlement attempts by method and result.",
	}, []string{"method", "result"})

	// WebhookNotifications counts inbound gateway notifications by mapped status.
	WebhookNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tillpoint",
		Name:      "webhook_notifications_total",
		Help:      "Inbound gateway notifications by mapped status.",
	}, []string{"status"})
)
