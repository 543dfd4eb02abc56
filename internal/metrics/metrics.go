// Package metrics holds the Prometheus collectors for the insight engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RuleRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablewatch_rule_runs_total",
			Help: "Total number of insight rule evaluations",
		},
		[]string{"rule"},
	)

	RuleFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablewatch_rule_failures_total",
			Help: "Total number of insight rule evaluations that panicked",
		},
		[]string{"rule"},
	)

	RuleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tablewatch_rule_duration_seconds",
			Help:    "Duration of insight rule evaluation in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"rule"},
	)

	InsightsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablewatch_insights_emitted_total",
			Help: "Total number of insights emitted by type",
		},
		[]string{"type"},
	)
)

// ObserveRule records one evaluation of a rule.
func ObserveRule(rule string, elapsed time.Duration, failed bool) {
	RuleRuns.WithLabelValues(rule).Inc()
	RuleDuration.WithLabelValues(rule).Observe(elapsed.Seconds())
	if failed {
		RuleFailures.WithLabelValues(rule).Inc()
	}
}
