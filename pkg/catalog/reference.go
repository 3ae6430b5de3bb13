package catalog

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"

	"github.com/operator-framework/pkgsolve/pkg/version"
)

// Operator is one of the relational operators a Reference may carry.
type Operator string

const (
	OpNone Operator = ""
	OpEQ   Operator = "="
	OpLT   Operator = "<"
	OpGT   Operator = ">"
	OpLE   Operator = "<="
	OpGE   Operator = ">="
)

// nameRE matches the name portion of a reference: letters, digits,
// '.', '+' and '-'.
var nameRE = regexp.MustCompile(`^[A-Za-z0-9.+-]+`)

// operators is tried longest-first so "<=" is not mistaken for "<".
var operators = []Operator{OpLE, OpGE, OpEQ, OpLT, OpGT}

// ErrParse indicates a reference string could not be parsed.
var ErrParse = errors.New("malformed reference")

// Reference is a (name, optional operator, optional version) triple
// describing a predicate over packages.
type Reference struct {
	Name     string
	Operator Operator
	Version  version.Version
}

// String renders r back into its textual form.
func (r Reference) String() string {
	if r.Operator == OpNone {
		return r.Name
	}
	return fmt.Sprintf("%s%s%s", r.Name, r.Operator, r.Version.Raw)
}

// ParseReference parses one of the forms `name`, `name=ver`,
// `name<ver`, `name>ver`, `name<=ver`, `name>=ver`.
func ParseReference(raw string) (Reference, error) {
	name := nameRE.FindString(raw)
	if name == "" {
		return Reference{}, errors.Wrapf(ErrParse, "no valid name in %q", raw)
	}
	rest := raw[len(name):]
	if rest == "" {
		return Reference{Name: name}, nil
	}
	for _, op := range operators {
		if len(rest) >= len(op) && rest[:len(op)] == string(op) {
			verStr := rest[len(op):]
			if verStr == "" {
				return Reference{}, errors.Wrapf(ErrParse, "missing version after operator in %q", raw)
			}
			return Reference{Name: name, Operator: op, Version: version.Parse(verStr)}, nil
		}
	}
	return Reference{}, errors.Wrapf(ErrParse, "unrecognized operator in %q", raw)
}

// Matches reports whether r matches package p.
func (r Reference) Matches(p *Package) bool {
	if r.Name != p.Name {
		return false
	}
	if r.Operator == OpNone {
		return true
	}
	cmp := version.Compare(p.CanonicalVersion, r.Version.Canonical)
	switch r.Operator {
	case OpEQ:
		return cmp == 0
	case OpLT:
		return cmp < 0
	case OpGT:
		return cmp > 0
	case OpLE:
		return cmp <= 0
	case OpGE:
		return cmp >= 0
	}
	return false
}
