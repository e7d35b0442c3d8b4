package predict

import "github.com/prometheus/client_golang/prometheus"

var predictionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gearguard_predictions_total",
		Help: "Total predictions generated, by severity.",
	},
	[]string{"severity"},
)

func init() {
	prometheus.MustRegister(predictionsTotal)
}
