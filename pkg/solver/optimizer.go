// Package solver wires the CNF encoder, the SAT oracle, and the
// command builder into the optimizer loop (component G) and the
// large-catalog mode selector (component H).
package solver

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/operator-framework/pkgsolve/pkg/catalog"
	"github.com/operator-framework/pkgsolve/pkg/cnf"
	"github.com/operator-framework/pkgsolve/pkg/command"
	"github.com/operator-framework/pkgsolve/pkg/metrics"
	"github.com/operator-framework/pkgsolve/pkg/oracle"
)

// ErrUnsatisfiable is returned when the oracle rejects the initial
// formula: no assignment satisfies the request's constraints against
// the catalog at all. The optimizer loop also returns it when every
// candidate the oracle yields is infeasible for the command builder.
var ErrUnsatisfiable = errUnsatisfiable{}

type errUnsatisfiable struct{}

func (errUnsatisfiable) Error() string { return "no solution satisfies the given constraints" }

// optimize runs the full blocking-clause enumeration loop: ask the
// oracle, score the candidate, block its install set, repeat until
// UNSAT. It keeps the cheapest feasible candidate seen.
func optimize(ctx context.Context, c *catalog.Catalog, req *catalog.Request, f *cnf.Formula, o oracle.Oracle, log *logrus.Logger) (command.Result, error) {
	best := command.Result{Cost: -1}
	haveBest := false

	for {
		assignment, sat, err := o.Solve(ctx, f)
		if err != nil {
			return command.Result{}, err
		}
		if !sat {
			break
		}
		metrics.CandidatesEvaluated.Inc()

		installed := installedIDs(c, assignment)

		result, err := command.Build(c, req.Initial, assignment, log)
		switch {
		case err == nil:
			if !haveBest || result.Cost < best.Cost {
				best = result
				haveBest = true
				metrics.BestCost.Set(float64(best.Cost))
				log.WithFields(logrus.Fields{
					"cost":      result.Cost,
					"commands":  len(result.Commands),
					"candidate": len(f.Clauses),
				}).Debug("new best candidate")
			}
		default:
			metrics.CandidatesInfeasible.Inc()
			log.WithError(err).Debug("discarding infeasible candidate")
		}

		// Blocking clause: forbid exactly this install set. Two
		// assignments agreeing on their positive literals are
		// equivalent for this problem, since cost and commands
		// depend only on the install set relative to the
		// initial state.
		blockInstallSet(f, installed)
	}

	if !haveBest {
		return command.Result{}, ErrUnsatisfiable
	}
	return best, nil
}

// installedIDs returns the ids assignment marks installed, in
// ascending order.
func installedIDs(c *catalog.Catalog, a oracle.Assignment) []catalog.ID {
	var ids []catalog.ID
	for _, p := range c.All() {
		if a.Installed(int(p.ID)) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// blockInstallSet appends ⋁ ¬p for every installed id, forbidding
// this exact install set from appearing in any later candidate.
func blockInstallSet(f *cnf.Formula, installed []catalog.ID) {
	clause := make(cnf.Clause, 0, len(installed))
	for _, id := range installed {
		clause = append(clause, cnf.Lit(-id))
	}
	f.Clauses = append(f.Clauses, clause)
}
