package notify

import "github.com/prometheus/client_golang/prometheus"

var (
	deliveriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gearguard_notifications_delivered_total",
			Help: "Total notifications delivered successfully.",
		},
	)
	deliveryFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gearguard_notification_delivery_failures_total",
			Help: "Total failed delivery attempts.",
		},
	)
	deliveriesExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gearguard_notifications_exhausted_total",
			Help: "Total notifications parked after exhausting delivery attempts.",
		},
	)
)

func init() {
	prometheus.MustRegister(deliveriesTotal)
	prometheus.MustRegister(deliveryFailuresTotal)
	prometheus.MustRegister(deliveriesExhaustedTotal)
}
