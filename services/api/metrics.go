package api

import "github.com/prometheus/client_golang/prometheus"

var buildsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sitewrap_builds_total",
		Help: "Number of build requests by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(buildsTotal)
}
