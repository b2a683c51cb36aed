package replication

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchsync_replication_events_broadcast_total",
			Help: "Events enqueued for replication, by event type",
		},
		[]string{"type"},
	)

	eventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchsync_replication_events_delivered_total",
			Help: "Events acknowledged by a peer",
		},
		[]string{"peer"},
	)

	deliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchsync_replication_delivery_failures_total",
			Help: "Delivery attempts that failed and left the event queued",
		},
		[]string{"peer"},
	)

	pendingEvents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "branchsync_replication_pending_events",
			Help: "Events currently queued for a peer",
		},
		[]string{"peer"},
	)
)
