package recognition

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transfersEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recognition_transfers_evaluated_total",
			Help: "Total number of transfer eligibility evaluations",
		},
		[]string{"outcome", "reason"},
	)

	transferAmounts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recognition_transfer_amounts",
			Help:    "Distribution of evaluated transfer amounts",
			Buckets: prometheus.ExponentialBuckets(1000, 10, 4),
		},
	)
)

func recordEvaluation(d Decision, amount int64) {
	outcome := "denied"
	reason := d.Reason
	if d.Allowed {
		outcome = "allowed"
		reason = ""
	}
	transfersEvaluated.WithLabelValues(outcome, reason).Inc()
	transferAmounts.Observe(float64(amount))
}
