package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StatusTransitions counts lifecycle transitions by from/to status
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memberd_status_transitions_total",
		Help: "Member account status transitions applied by the lifecycle service.",
	}, []string{"from", "to"})

	// Emails counts notification dispatch attempts per provider
	Emails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memberd_emails_total",
		Help: "Notification emails attempted, labelled by provider and outcome.",
	}, []string{"provider", "outcome"})

	// BulkItems counts per-item outcomes of bulk operations
	BulkItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memberd_bulk_items_total",
		Help: "Per-item outcomes of bulk status and role operations.",
	}, []string{"outcome"})
)
