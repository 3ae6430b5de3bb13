// Package oracle provides the SAT oracle contract (component E) and
// two concrete adapters: an in-process solver backed by gini, and a
// subprocess adapter speaking the DIMACS protocol of an external
// solver.
package oracle

import (
	"context"

	"github.com/operator-framework/pkgsolve/pkg/cnf"
)

// Assignment maps every variable 1..N to installed (true) or
// not-installed (false). A variable missing from Values is treated as
// not-installed; a complete solver should never omit one.
type Assignment struct {
	Values map[int]bool
}

// Installed reports whether variable v is installed under a.
func (a Assignment) Installed(v int) bool {
	return a.Values[v]
}

// Oracle is the contract the Optimizer and the single-pass mode both
// depend on: given a CNF formula, return a satisfying assignment, or
// report that none exists. Neither caller depends on how the oracle
// is implemented — subprocess, in-process library, or otherwise.
type Oracle interface {
	// Solve returns (assignment, true, nil) if f is satisfiable,
	// (zero value, false, nil) if f is unsatisfiable, or a non-nil
	// error if the oracle itself failed (e.g. the subprocess
	// could not be started).
	Solve(ctx context.Context, f *cnf.Formula) (Assignment, bool, error)
}
