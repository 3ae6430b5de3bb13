// Package version canonicalizes package version strings and compares
// them the way the catalog's dependency and conflict predicates
// require: lexicographically, over a canonical form padded to a
// minimum width.
package version

import "strings"

// minCanonicalLen is the minimum length a canonical version string is
// padded to, per component suffix ".0".
const minCanonicalLen = 5

// Version holds both the raw, as-declared version string and its
// canonical comparison form.
type Version struct {
	Raw       string
	Canonical string
}

// Empty reports whether v carries no version at all ("any version").
func (v Version) Empty() bool {
	return v.Raw == ""
}

// Parse canonicalizes raw into a Version. An empty raw string is
// preserved as the "any version" marker and is never padded.
func Parse(raw string) Version {
	if raw == "" {
		return Version{}
	}
	return Version{Raw: raw, Canonical: Canonicalize(raw)}
}

// Canonicalize right-appends ".0" to raw until its length is at least
// minCanonicalLen. This is the source domain's scheme for making
// dotted-numeric versions of unequal width comparable lexicographically;
// see the doc comment on Compare for its limits.
func Canonicalize(raw string) string {
	c := raw
	for len(c) < minCanonicalLen {
		c += ".0"
	}
	return c
}

// Compare orders two canonical version strings lexicographically.
// It returns a negative number, zero, or a positive number as a is
// less than, equal to, or greater than b.
//
// Lexicographic comparison only matches numeric ordering when every
// dotted component has the same number of digits (e.g. "1.2" but not
// "1.10"); multi-digit components out of that range compare
// incorrectly ("10" sorts before "9"). The catalog this was modeled on
// only ever produces single-digit components, so the mismatch is
// never observed in practice, but it is not fixed here — doing so
// would mean switching to component-wise numeric comparison, which
// changes ordering for any version already relying on the
// lexicographic behavior.
func Compare(a, b string) int {
	return strings.Compare(a, b)
}
