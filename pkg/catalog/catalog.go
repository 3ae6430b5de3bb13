package catalog

import (
	"github.com/sirupsen/logrus"

	"github.com/operator-framework/pkgsolve/pkg/version"
)

// ID is a package's unique, positive, Catalog-scoped identifier.
type ID int

// RawPackage is a catalog entry exactly as authored: references are
// still unresolved text, not package ids. The document codec decodes
// into this shape; Build resolves it into a Catalog.
type RawPackage struct {
	Name      string
	Version   string
	Size      int
	Depends   [][]string
	Conflicts []string
}

// Package is a single catalog variant, resolved: its dependency
// groups and conflicts are concrete id sets rather than reference
// strings.
type Package struct {
	ID               ID
	Name             string
	RawVersion       string
	CanonicalVersion string
	Size             int

	// DepGroups is an ordered list of disjunctive requirements;
	// each group is a non-empty set of candidate ids.
	DepGroups [][]ID
	// Conflicts is the set of ids that must never be co-installed
	// with this package.
	Conflicts map[ID]struct{}
}

// Catalog is the universe of known packages, indexed by name and by
// id.
type Catalog struct {
	variants map[string][]*Package
	byID     map[ID]*Package
	order    []*Package
}

// Variants returns every Package sharing name, in catalog order, or
// nil if name is unknown.
func (c *Catalog) Variants(name string) []*Package {
	return c.variants[name]
}

// ByID returns the Package with the given id, or nil if none exists.
func (c *Catalog) ByID(id ID) *Package {
	return c.byID[id]
}

// All returns every Package in the Catalog, in insertion (id) order.
func (c *Catalog) All() []*Package {
	return c.order
}

// Len returns the number of packages in the Catalog; this is also N,
// the number of CNF variables the Encoder allocates.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Matching returns the ids of every package matching r, in catalog
// order.
func (c *Catalog) Matching(r Reference) []ID {
	var ids []ID
	for _, p := range c.variants[r.Name] {
		if r.Matches(p) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Build constructs a Catalog from raw entries. Packages are assigned
// ids in insertion order starting at 1. Only once every package
// exists does Build resolve dependency groups and conflicts against
// the full variant lists, because a reference may match a package
// declared later in the input.
func Build(raws []RawPackage, log *logrus.Logger) *Catalog {
	if log == nil {
		log = logrus.StandardLogger()
	}

	c := &Catalog{
		variants: make(map[string][]*Package),
		byID:     make(map[ID]*Package),
	}

	for i, raw := range raws {
		p := &Package{
			ID:               ID(i + 1),
			Name:             raw.Name,
			RawVersion:       raw.Version,
			CanonicalVersion: version.Canonicalize(raw.Version),
			Size:             raw.Size,
			Conflicts:        make(map[ID]struct{}),
		}
		c.variants[p.Name] = append(c.variants[p.Name], p)
		c.byID[p.ID] = p
		c.order = append(c.order, p)
	}

	for i, raw := range raws {
		p := c.order[i]
		for _, ref := range raw.Conflicts {
			r, err := ParseReference(ref)
			if err != nil {
				log.WithError(err).WithField("package", p.Name).Warn("dropping malformed conflict reference")
				continue
			}
			for _, id := range c.Matching(r) {
				if id == p.ID {
					continue
				}
				p.Conflicts[id] = struct{}{}
			}
		}

		for _, group := range raw.Depends {
			resolved := resolveGroup(c, group, p, log)
			if len(resolved) == 0 {
				continue
			}
			p.DepGroups = append(p.DepGroups, resolved)
		}
	}

	return c
}

// resolveGroup expands every reference in a raw dependency group to
// the union of matching ids, then strips any id that is also in the
// owning package's conflict set. A group left empty by that stripping
// is dropped by the caller rather than treated as unsatisfiable.
func resolveGroup(c *Catalog, group []string, owner *Package, log *logrus.Logger) []ID {
	seen := make(map[ID]struct{})
	var out []ID
	for _, ref := range group {
		r, err := ParseReference(ref)
		if err != nil {
			log.WithError(err).WithField("package", owner.Name).Warn("dropping malformed dependency reference")
			continue
		}
		for _, id := range c.Matching(r) {
			if _, dup := seen[id]; dup {
				continue
			}
			if _, conflicting := owner.Conflicts[id]; conflicting {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
