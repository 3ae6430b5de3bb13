// Package cnf builds the CNF formula the dependency-resolution
// problem reduces to, and the DIMACS wire encoding an external SAT
// oracle speaks.
package cnf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Lit is a DIMACS-style signed literal: variable v contributes the
// literal v (positive, "installed") or -v (negative, "not
// installed"). Variables are exactly the package ids 1..N.
type Lit int

// Var returns the unsigned variable underlying l.
func (l Lit) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// Clause is a disjunction of literals.
type Clause []Lit

// Formula is a CNF formula over N variables: the package ids 1..N.
type Formula struct {
	NumVars int
	Clauses []Clause
}

// NewFormula returns an empty formula over numVars variables.
func NewFormula(numVars int) *Formula {
	return &Formula{NumVars: numVars}
}

// AddClause appends a clause in the order given. Clause order is
// part of the formula's determinism contract: callers extending a
// Formula (the optimizer's blocking clauses) must always append,
// never reorder or deduplicate existing clauses.
func (f *Formula) AddClause(lits ...Lit) {
	f.Clauses = append(f.Clauses, Clause(lits))
}

// WriteDIMACS serializes f as DIMACS CNF: a header line `p cnf <vars>
// <clauses>` followed by one zero-terminated line of literals per
// clause.
func (f *Formula) WriteDIMACS(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", f.NumVars, len(f.Clauses)); err != nil {
		return err
	}
	var b strings.Builder
	for _, clause := range f.Clauses {
		b.Reset()
		for _, lit := range clause {
			b.WriteString(strconv.Itoa(int(lit)))
			b.WriteByte(' ')
		}
		b.WriteString("0\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
