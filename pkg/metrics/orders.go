package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the place-order flow, transaction included
	OrderPlaceLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_place_latency_seconds",
		Help:    "Latency of order placement",
		Buckets: prometheus.DefBuckets,
	})

	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of orders cancelled",
	})

	// Best-effort email dispatches that returned an error
	NotificationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Total number of failed email notification dispatches",
	})
)

func Init() {
	prometheus.MustRegister(
		OrderPlaceLatency,
		OrdersPlaced,
		OrdersCancelled,
		NotificationFailures,
	)
}
