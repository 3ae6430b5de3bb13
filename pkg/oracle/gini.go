package oracle

import (
	"context"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/operator-framework/pkgsolve/pkg/cnf"
)

// GiniOracle solves formulas in-process with the gini SAT solver. It
// is the default oracle: no subprocess, no text protocol, just a real
// CDCL solver linked into the binary.
type GiniOracle struct{}

// NewGini returns an Oracle backed by gini.
func NewGini() *GiniOracle {
	return &GiniOracle{}
}

// Solve implements Oracle.
func (GiniOracle) Solve(_ context.Context, f *cnf.Formula) (Assignment, bool, error) {
	g := gini.New()
	for _, clause := range f.Clauses {
		for _, lit := range clause {
			g.Add(litOf(lit))
		}
		g.Add(z.LitNull)
	}

	switch g.Solve() {
	case 1:
		values := make(map[int]bool, f.NumVars)
		for v := 1; v <= f.NumVars; v++ {
			values[v] = g.Value(z.Var(v).Pos())
		}
		return Assignment{Values: values}, true, nil
	case -1:
		return Assignment{}, false, nil
	default:
		return Assignment{}, false, nil
	}
}

// litOf converts a cnf.Lit (a signed int variable reference) into the
// z.Lit gini's Adder interface expects.
func litOf(l cnf.Lit) z.Lit {
	v := z.Var(l.Var())
	if l < 0 {
		return v.Neg()
	}
	return v.Pos()
}
