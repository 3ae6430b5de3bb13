package cnf

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/operator-framework/pkgsolve/pkg/catalog"
)

// ErrNoCandidates is returned by Encode when a user install
// constraint matches no catalog package at all; the formula would be
// trivially unsatisfiable by that clause alone, so Encode reports the
// condition directly rather than emitting an empty clause.
var ErrNoCandidates = errors.New("install constraint matches no catalog package")

// Encode reduces c and req to a CNF Formula over the package ids
// 1..c.Len(). Clause order is: per package, conflicts then
// dependency groups, in catalog order; then uninstall unit clauses,
// in ascending id order; then install clauses, in Request order. This
// order is the formula's determinism contract — the Optimizer only
// ever appends to it.
func Encode(c *catalog.Catalog, req *catalog.Request) (*Formula, error) {
	f := NewFormula(c.Len())

	for _, p := range c.All() {
		// Conflicts: (¬p ∨ ¬q) for every q in p.Conflicts. Map
		// iteration order is randomized by the runtime, so ids
		// are sorted first to keep clause order deterministic.
		for _, q := range sortedIDs(p.Conflicts) {
			f.AddClause(Lit(-p.ID), Lit(-q))
		}
		// Dependencies: (¬p ∨ ⋁ q∈G q) for every dep group G.
		for _, group := range p.DepGroups {
			clause := make(Clause, 0, len(group)+1)
			clause = append(clause, Lit(-p.ID))
			for _, q := range group {
				clause = append(clause, Lit(q))
			}
			f.Clauses = append(f.Clauses, clause)
		}
	}

	for _, id := range sortedIDs(req.Uninstall) {
		f.AddClause(Lit(-id))
	}

	for _, ref := range req.Install {
		ids := c.Matching(ref)
		if len(ids) == 0 {
			return nil, errors.Wrapf(ErrNoCandidates, "reference %q", ref.String())
		}
		clause := make(Clause, 0, len(ids))
		for _, id := range ids {
			clause = append(clause, Lit(id))
		}
		f.Clauses = append(f.Clauses, clause)
	}

	return f, nil
}

func sortedIDs(ids map[catalog.ID]struct{}) []catalog.ID {
	out := make([]catalog.ID, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
