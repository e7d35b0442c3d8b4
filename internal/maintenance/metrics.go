package maintenance

import "github.com/prometheus/client_golang/prometheus"

var (
	tasksScheduledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gearguard_maintenance_tasks_scheduled_total",
			Help: "Total maintenance tasks scheduled, by source.",
		},
		[]string{"source"},
	)
	tasksCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gearguard_maintenance_tasks_completed_total",
			Help: "Total maintenance tasks completed.",
		},
	)
)

func init() {
	prometheus.MustRegister(tasksScheduledTotal)
	prometheus.MustRegister(tasksCompletedTotal)
}
