package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cityexchange_notification_deliveries_total",
			Help: "Notification send attempts by request kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	dispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cityexchange_notification_dispatches_total",
			Help: "Fan-out runs by request kind",
		},
		[]string{"kind"},
	)
)
