// Package command turns a chosen assignment and the current state
// into a topologically ordered list of install/uninstall commands and
// their cost (component F).
package command

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/operator-framework/pkgsolve/pkg/catalog"
	"github.com/operator-framework/pkgsolve/pkg/oracle"
)

// removalCost is the fixed cost of uninstalling a single package.
const removalCost = 1_000_000

// ErrInfeasible is returned when to_install cannot be ordered because
// some package's dependency group has neither a pre-existing
// supplier in the current state nor a chosen one among the packages
// being installed.
var ErrInfeasible = errors.New("no supplier available for dependency group")

// ErrCycle is returned when the removal or install subgraph contains
// a cycle, so no linear order exists.
var ErrCycle = errors.New("dependency subgraph has a cycle")

// Result is the output of Build: an ordered command list and its
// cost.
type Result struct {
	Commands []string
	Cost     int
}

// Build splits assignment against the current state into to_install
// and to_remove, orders each by topological sort over its dependency
// subgraph, and synthesizes the command list: every removal command
// followed by every install command.
func Build(c *catalog.Catalog, state map[catalog.ID]struct{}, a oracle.Assignment, log *logrus.Logger) (Result, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var toInstall, toRemove []catalog.ID
	for _, p := range c.All() {
		installed := a.Installed(int(p.ID))
		_, present := state[p.ID]
		switch {
		case installed && !present:
			toInstall = append(toInstall, p.ID)
		case !installed && present:
			toRemove = append(toRemove, p.ID)
		}
	}

	removeOrder, err := orderRemovals(c, toRemove)
	if err != nil {
		return Result{}, err
	}
	installOrder, err := orderInstalls(c, toInstall, state, log)
	if err != nil {
		return Result{}, err
	}

	commands := make([]string, 0, len(removeOrder)+len(installOrder))
	for _, id := range removeOrder {
		p := c.ByID(id)
		commands = append(commands, fmt.Sprintf("-%s=%s", p.Name, p.RawVersion))
	}
	for _, id := range installOrder {
		p := c.ByID(id)
		commands = append(commands, fmt.Sprintf("+%s=%s", p.Name, p.RawVersion))
	}

	cost := len(toRemove) * removalCost
	for _, id := range toInstall {
		cost += c.ByID(id).Size
	}

	return Result{Commands: commands, Cost: cost}, nil
}

// orderRemovals builds a DAG over toRemove: for every p in toRemove
// and every id q appearing in one of p's dep groups that is also in
// toRemove, an edge p -> q ensures the dependent p is removed before
// the dependency q it (would) still need, so no installed package is
// ever left depending on something already gone.
func orderRemovals(c *catalog.Catalog, toRemove []catalog.ID) ([]catalog.ID, error) {
	inSet := toSet(toRemove)
	edges := make(map[catalog.ID][]catalog.ID)
	indegree := make(map[catalog.ID]int, len(toRemove))
	for _, id := range toRemove {
		indegree[id] = 0
	}
	for _, id := range toRemove {
		p := c.ByID(id)
		for _, group := range p.DepGroups {
			for _, q := range group {
				if _, ok := inSet[q]; ok {
					edges[id] = append(edges[id], q)
					indegree[q]++
				}
			}
		}
	}
	return kahn(toRemove, edges, indegree)
}

// orderInstalls builds a DAG over toInstall: for each p in toInstall
// and each dep group G of p, a supplier is chosen — a pre-existing
// package in state (no edge needed) or exactly one element of G also
// in toInstall (edge supplier -> p). A group satisfied by neither is
// an infeasible candidate.
func orderInstalls(c *catalog.Catalog, toInstall []catalog.ID, state map[catalog.ID]struct{}, log *logrus.Logger) ([]catalog.ID, error) {
	inSet := toSet(toInstall)
	edges := make(map[catalog.ID][]catalog.ID)
	indegree := make(map[catalog.ID]int, len(toInstall))
	for _, id := range toInstall {
		indegree[id] = 0
	}

	for _, id := range toInstall {
		p := c.ByID(id)
		for _, group := range p.DepGroups {
			if groupPreSatisfied(group, state) {
				continue
			}
			supplier, ok := pickSupplier(group, inSet)
			if !ok {
				log.WithFields(logrus.Fields{
					"package": p.Name,
					"version": p.RawVersion,
				}).Debug("no supplier available for dependency group")
				return nil, errors.Wrapf(ErrInfeasible, "%s=%s", p.Name, p.RawVersion)
			}
			edges[supplier] = append(edges[supplier], id)
			indegree[id]++
		}
	}

	return kahn(toInstall, edges, indegree)
}

func groupPreSatisfied(group []catalog.ID, state map[catalog.ID]struct{}) bool {
	for _, id := range group {
		if _, ok := state[id]; ok {
			return true
		}
	}
	return false
}

// pickSupplier deterministically picks the lowest-id element of group
// that is also being installed. Any element would do per spec; a
// deterministic choice keeps output reproducible.
func pickSupplier(group []catalog.ID, inSet map[catalog.ID]struct{}) (catalog.ID, bool) {
	best := catalog.ID(0)
	found := false
	for _, id := range group {
		if _, ok := inSet[id]; !ok {
			continue
		}
		if !found || id < best {
			best = id
			found = true
		}
	}
	return best, found
}

func toSet(ids []catalog.ID) map[catalog.ID]struct{} {
	s := make(map[catalog.ID]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// kahn runs Kahn's algorithm over the given node set and edge map,
// seeding the ready-set with every zero-indegree node and decrementing
// successors as each node is placed. The ready-set is a first-in
// first-out queue: the initial ready nodes, and each batch of nodes a
// placement makes ready, are appended in ascending id order. This is
// not semantically required but keeps output deterministic. A ready-set that empties
// before every node is placed indicates a cycle.
func kahn(nodes []catalog.ID, edges map[catalog.ID][]catalog.ID, indegree map[catalog.ID]int) ([]catalog.ID, error) {
	ready := make([]catalog.ID, 0, len(nodes))
	for _, id := range nodes {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	indeg := make(map[catalog.ID]int, len(indegree))
	for k, v := range indegree {
		indeg[k] = v
	}

	out := make([]catalog.ID, 0, len(nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		out = append(out, id)

		var newlyReady []catalog.ID
		for _, succ := range edges[id] {
			indeg[succ]--
			if indeg[succ] == 0 {
				newlyReady = append(newlyReady, succ)
			}
		}
		sort.Slice(newlyReady, func(i, j int) bool { return newlyReady[i] < newlyReady[j] })
		ready = append(ready, newlyReady...)
	}

	if len(out) != len(nodes) {
		return nil, ErrCycle
	}
	return out, nil
}
