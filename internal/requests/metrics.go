package requests

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_created_total",
			Help: "Total number of interaction requests created",
		},
		[]string{"kind"},
	)

	requestTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_transitions_total",
			Help: "Total number of request state transitions",
		},
		[]string{"status"},
	)
)
