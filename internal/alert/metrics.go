package alert

import "github.com/prometheus/client_golang/prometheus"

var (
	alertsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gearguard_alerts_created_total",
			Help: "Total alerts created, by severity.",
		},
		[]string{"severity"},
	)
	noAlertTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gearguard_alerts_below_threshold_total",
			Help: "Readings that classified below the alerting threshold.",
		},
	)
	suppressedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gearguard_alerts_suppressed_total",
			Help: "Alerts suppressed by an existing equal-or-higher active alert.",
		},
	)
)

func init() {
	prometheus.MustRegister(alertsCreatedTotal)
	prometheus.MustRegister(noAlertTotal)
	prometheus.MustRegister(suppressedTotal)
}
