// Package metrics registers the Prometheus collectors the optimizer
// loop reports through.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// CandidatesEvaluated counts every satisfying assignment the
	// Oracle returned to the optimizer loop, feasible or not.
	CandidatesEvaluated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pkgsolve",
		Name:      "candidates_evaluated_total",
		Help:      "Total number of candidate assignments the oracle returned to the optimizer loop.",
	})

	// CandidatesInfeasible counts candidates the Command Builder
	// rejected (missing supplier or cycle).
	CandidatesInfeasible = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pkgsolve",
		Name:      "candidates_infeasible_total",
		Help:      "Total number of candidates rejected by the command builder.",
	})

	// BestCost reports the cost of the best feasible candidate
	// found so far in the current run.
	BestCost = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pkgsolve",
		Name:      "best_cost",
		Help:      "Cost of the cheapest feasible candidate found so far.",
	})
)

// Register registers every collector in this package with reg. Call
// once at process start.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(CandidatesEvaluated, CandidatesInfeasible, BestCost)
}
