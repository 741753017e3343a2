package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distribution_orders_accepted_total",
			Help: "Orders accepted, by fulfillment status",
		},
		[]string{"status"},
	)

	OrdersRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "distribution_orders_rejected_total",
			Help: "Orders rejected after aggregating item failures",
		},
	)

	ManufacturerSubmitFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "distribution_manufacturer_submit_failures_total",
			Help: "Advisory manufacturer order submissions that failed",
		},
	)

	StockEscalations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "distribution_stock_escalations_total",
			Help: "Line items escalated to the manufacturer on local shortfall",
		},
	)
)

func Register() {
	prometheus.MustRegister(OrdersAccepted)
	prometheus.MustRegister(OrdersRejected)
	prometheus.MustRegister(ManufacturerSubmitFailures)
	prometheus.MustRegister(StockEscalations)
}
