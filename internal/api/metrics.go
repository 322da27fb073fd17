package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cityexchange_orders_created_total",
		Help: "Exchange orders accepted by the intake API",
	}, []string{"order_type"})

	transfersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cityexchange_transfers_created_total",
		Help: "Transfer requests accepted by the intake API",
	}, []string{"country"})

	rejectedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cityexchange_rejected_requests_total",
		Help: "Intake submissions rejected by validation",
	}, []string{"kind", "field"})
)
