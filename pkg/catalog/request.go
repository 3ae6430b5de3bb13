package catalog

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Request is the parsed (initial, install, uninstall) tuple a Catalog
// is solved against.
type Request struct {
	// Initial is the starting installed state.
	Initial map[ID]struct{}
	// Install is the list of references each required to be
	// satisfied by at least one installed package in the final
	// state.
	Install []Reference
	// Uninstall is the set of ids that must not be installed in
	// the final state.
	Uninstall map[ID]struct{}
}

// ParseInitial resolves each raw initial reference to the first
// matching package in its name's variant list. References with no
// match are silently skipped, matching the source parser's
// best-effort treatment of a stale initial-state snapshot.
func ParseInitial(c *Catalog, raws []string, log *logrus.Logger) (map[ID]struct{}, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	initial := make(map[ID]struct{})
	for _, raw := range raws {
		r, err := ParseReference(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing initial reference %q", raw)
		}
		for _, p := range c.Variants(r.Name) {
			if r.Matches(p) {
				initial[p.ID] = struct{}{}
				break
			}
		}
	}
	return initial, nil
}

// ParseConstraints resolves the user's `+`/`-` prefixed constraint
// strings into a Request's Install and Uninstall fields. An uninstall
// constraint resolves eagerly to every matching package; an install
// constraint stays an unresolved Reference, because it is a
// disjunction the Encoder turns into a CNF clause, not a single id.
func ParseConstraints(c *Catalog, raws []string, log *logrus.Logger) (install []Reference, uninstall map[ID]struct{}, err error) {
	uninstall = make(map[ID]struct{})
	for _, raw := range raws {
		if len(raw) == 0 {
			return nil, nil, errors.Wrapf(ErrParse, "empty constraint")
		}
		prefix, body := raw[:1], raw[1:]
		ref, perr := ParseReference(body)
		if perr != nil {
			return nil, nil, errors.Wrapf(perr, "parsing constraint %q", raw)
		}
		switch prefix {
		case "-":
			for _, p := range c.Variants(ref.Name) {
				if ref.Matches(p) {
					uninstall[p.ID] = struct{}{}
				}
			}
		case "+":
			install = append(install, ref)
		default:
			return nil, nil, errors.Wrapf(ErrParse, "constraint %q has no +/- prefix", raw)
		}
	}
	return install, uninstall, nil
}

// NewRequest parses the three raw request documents into a Request.
func NewRequest(c *Catalog, initialRaw, constraintsRaw []string, log *logrus.Logger) (*Request, error) {
	initial, err := ParseInitial(c, initialRaw, log)
	if err != nil {
		return nil, err
	}
	install, uninstall, err := ParseConstraints(c, constraintsRaw, log)
	if err != nil {
		return nil, err
	}
	return &Request{Initial: initial, Install: install, Uninstall: uninstall}, nil
}
