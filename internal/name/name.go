// Package name implements ADS's partial-name author matching: parsing a
// display string like "Last, First Middle" into a normalized, comparable
// Name, and the non-transitive equality relation that ADS's author search
// uses (an initial is consistent with, but not equal to, a spelled-out
// given name).
package name

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// InvalidName is returned when a raw string cannot be parsed into a Name,
// e.g. because the computed last name is empty.
type InvalidName struct {
	Raw    string
	Reason string
}

func (e *InvalidName) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Raw, e.Reason)
}

// ReservedPlaceholder returns a Name carrying raw verbatim as its last name,
// bypassing modifier parsing and character normalization entirely. It
// exists only to seed a graph node before the name it identifies is known
// (e.g. an ORCID id pending resolution to its canonical publishing name via
// a lookup by id); ORCID ids are pure digits and hyphens, which normal
// parsing would filter down to an empty, invalid last name. The result must
// never be compared for equality or shown to a user — it is meant to be
// replaced once the real name is known.
func ReservedPlaceholder(raw string) *Name {
	return &Name{lastName: raw, originalName: raw}
}

// Name is an immutable, interned representation of an author name, along
// with the specificity/exactness modifiers a caller attached to it.
//
// Two Names sharing the same underlying (last, given...) tuple and the same
// modifiers are always the same *Name value when obtained through a Space,
// so pointer equality can be used as a fast path in Equal.
type Name struct {
	lastName   string
	givenNames []string

	requireExact        bool
	requireMoreSpecific bool
	requireLessSpecific bool
	allowSameSpecific   bool
	allowSynonym        bool

	originalName string

	qualifiedOnce sync.Once
	qualifiedName string

	synonym *Name

	eqMu    sync.Mutex
	eqCache map[string]bool
}

// diacriticFolder strips combining marks after NFD decomposition, folding
// accented letters down to their closest ASCII form. Uses golang.org/x/text
// for the Unicode normalization; it does no case folding.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldToASCIIish(s string) string {
	out, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return out
}

// okChar reports whether r survives the final character filter: lowercase
// ASCII letters and the space used inside multi-word last names.
func okChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == ' '
}

func filterChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if okChar(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// modifierPrefix captures a parsed leading modifier run, e.g. "<=", ">", "@".
type modifierPrefix struct {
	requireExact        bool
	requireMoreSpecific bool
	requireLessSpecific bool
	allowSameSpecific   bool
	allowSynonym        bool
	consumed             int
}

// parseModifierPrefix reads the combination of <, >, =, @ from the start of
// s. It returns the defaults (no modifiers) if s has no
// recognized leading run.
func parseModifierPrefix(s string) (modifierPrefix, error) {
	// Collect the leading run of modifier characters, regardless of order
	// ("=><Last, F" is as valid as "<=>Last, F").
	i := 0
	for i < len(s) && strings.ContainsRune("<>=@", rune(s[i])) {
		i++
	}
	run := s[:i]
	if run == "" {
		return modifierPrefix{allowSameSpecific: true, allowSynonym: true}, nil
	}

	hasLT := strings.ContainsRune(run, '<')
	hasGT := strings.ContainsRune(run, '>')
	hasEQ := strings.ContainsRune(run, '=')
	hasAT := strings.ContainsRune(run, '@')

	switch {
	case hasLT && hasGT:
		return modifierPrefix{}, fmt.Errorf("cannot combine < and >")
	case hasAT && (hasLT || hasGT || hasEQ):
		return modifierPrefix{}, fmt.Errorf("cannot combine @ with < > =")
	case hasGT:
		return modifierPrefix{
			requireMoreSpecific: true,
			allowSameSpecific:   hasEQ,
			allowSynonym:        true,
			consumed:            i,
		}, nil
	case hasLT:
		return modifierPrefix{
			requireLessSpecific: true,
			allowSameSpecific:   hasEQ,
			allowSynonym:        true,
			consumed:            i,
		}, nil
	case hasEQ:
		return modifierPrefix{
			requireExact:      true,
			allowSameSpecific: true,
			allowSynonym:      true,
			consumed:          i,
		}, nil
	case hasAT:
		return modifierPrefix{
			allowSameSpecific: true,
			consumed:          i,
		}, nil
	}
	return modifierPrefix{allowSameSpecific: true, allowSynonym: true}, nil
}

// internKey identifies a (last, given...) tuple plus its modifiers for the
// Space's intern table.
func internKey(mods modifierPrefix, last string, given []string) string {
	var b strings.Builder
	b.WriteString(canonicalModifierString(mods))
	b.WriteByte(0)
	b.WriteString(last)
	for _, g := range given {
		b.WriteByte(0)
		b.WriteString(g)
	}
	return b.String()
}

func canonicalModifierString(mods modifierPrefix) string {
	switch {
	case mods.requireLessSpecific && mods.allowSameSpecific:
		return "<="
	case mods.requireLessSpecific:
		return "<"
	case mods.requireMoreSpecific && mods.allowSameSpecific:
		return ">="
	case mods.requireMoreSpecific:
		return ">"
	case mods.requireExact:
		return "="
	case !mods.allowSynonym:
		return "@"
	default:
		return ""
	}
}

// parseRaw splits a raw "Last[, G1 G2 ...]" string into last/given parts,
// applying the -/. -> space prefilter and the comma split.
func parseRaw(body string) (last string, given []string) {
	prefiltered := strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return ' '
		}
		return r
	}, body)

	parts := strings.SplitN(prefiltered, ",", 2)
	last = parts[0]
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		given = strings.Fields(parts[1])
	}
	return last, given
}

func normalizeLast(s string) string {
	s = collapseSpaces(s)
	s = foldToASCIIish(s)
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	s = filterChars(s)
	return strings.TrimSpace(s)
}

func normalizeGiven(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = foldToASCIIish(t)
		t = strings.ToLower(t)
		t = strings.TrimSpace(t)
		t = filterChars(t)
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// LastName is the lowercased, diacritic-stripped family name.
func (n *Name) LastName() string { return n.lastName }

// GivenNames is the ordered list of lowercased given-name tokens (each
// either a single-letter initial or a spelled-out word).
func (n *Name) GivenNames() []string {
	out := make([]string, len(n.givenNames))
	copy(out, n.givenNames)
	return out
}

// RequireExactMatch reports whether this Name was parsed with a leading '='.
func (n *Name) RequireExactMatch() bool { return n.requireExact }

// RequireMoreSpecific reports whether this Name requires '>' semantics.
func (n *Name) RequireMoreSpecific() bool { return n.requireMoreSpecific }

// RequireLessSpecific reports whether this Name requires '<' semantics.
func (n *Name) RequireLessSpecific() bool { return n.requireLessSpecific }

// AllowSameSpecific reports whether a specificity-constrained Name also
// accepts exact matches to itself.
func (n *Name) AllowSameSpecific() bool { return n.allowSameSpecific }

// AllowSynonym reports whether synonym substitution is permitted; false only
// for the '@' modifier.
func (n *Name) AllowSynonym() bool { return n.allowSynonym }

// ExcludesSelf reports whether the bare (un-suffixed) form of this name is
// excluded from matching itself, i.e. a strict '<' or '>' modifier.
func (n *Name) ExcludesSelf() bool {
	return (n.requireLessSpecific || n.requireMoreSpecific) && !n.allowSameSpecific
}

// HasModifiers reports whether any non-default modifier is set.
func (n *Name) HasModifiers() bool {
	return n.requireExact || n.requireLessSpecific || n.requireMoreSpecific || !n.allowSynonym
}

// Modifiers returns the canonical modifier prefix, one of
// {"", "<", "<=", ">", ">=", "=", "@"}.
func (n *Name) Modifiers() string {
	switch {
	case n.requireLessSpecific && n.allowSameSpecific:
		return "<="
	case n.requireLessSpecific:
		return "<"
	case n.requireMoreSpecific && n.allowSameSpecific:
		return ">="
	case n.requireMoreSpecific:
		return ">"
	case n.requireExact:
		return "="
	case !n.allowSynonym:
		return "@"
	default:
		return ""
	}
}

// OriginalName is the raw string (or "Last, First ...") this Name was
// constructed from, unmodified, for display purposes.
func (n *Name) OriginalName() string { return n.originalName }

// BareOriginalName is OriginalName with any leading modifier characters
// stripped.
func (n *Name) BareOriginalName() string {
	return stripModifierChars(n.originalName)
}

func stripModifierChars(s string) string {
	for len(s) > 0 && strings.ContainsRune("=<>@", rune(s[0])) {
		s = s[1:]
	}
	return s
}

// QualifiedFullName is the canonical modifier prefix followed by the
// canonical "last, g1. g2." rendering. This is the hash/equality key used by
// Dict and for equality-cache memoization.
func (n *Name) QualifiedFullName() string {
	n.qualifiedOnce.Do(func() {
		n.qualifiedName = n.renderQualified()
	})
	return n.qualifiedName
}

func (n *Name) renderQualified() string {
	var b strings.Builder
	b.WriteString(n.Modifiers())
	b.WriteString(n.lastName)
	if len(n.givenNames) > 0 {
		b.WriteByte(',')
		for _, g := range n.givenNames {
			b.WriteByte(' ')
			b.WriteString(g)
			if len(g) == 1 {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// FullName is QualifiedFullName with modifiers stripped.
func (n *Name) FullName() string {
	return stripModifierChars(n.QualifiedFullName())
}

// Synonym is the canonical name this Name maps to via a loaded synonym set,
// or nil if none applies.
func (n *Name) Synonym() *Name { return n.synonym }

// LevelOfDetail scores how fully a name is spelled out: 10 per spelled-out
// given name, 3 per initial. Used for tie-breaks and "most specific alias"
// selection.
func (n *Name) LevelOfDetail() int {
	score := 0
	for _, g := range n.givenNames {
		if len(g) > 1 {
			score += 10
		} else {
			score += 3
		}
	}
	return score
}

func (n *Name) String() string {
	if n.synonym != nil {
		return fmt.Sprintf("%s (possibly AKA %q)", n.QualifiedFullName(), n.synonym.String())
	}
	return n.QualifiedFullName()
}

// nameDataConsistent reports whether two given-name lists could belong to
// the same person: last names already assumed equal; given-name lists must
// not contradict at any shared position, where a single-letter token is
// consistent with any token it prefixes.
func nameDataConsistent(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		gn1, gn2 := a[i], b[i]
		switch {
		case len(gn1) == 1:
			if !strings.HasPrefix(gn2, gn1) {
				return false
			}
		case len(gn2) == 1:
			if !strings.HasPrefix(gn1, gn2) {
				return false
			}
		default:
			if gn1 != gn2 {
				return false
			}
		}
	}
	return true
}

// IsMoreSpecificThan reports whether n carries every given name in other
// plus strictly more information: either an additional given name, or a
// spelled-out token where other has just an initial.
func (n *Name) IsMoreSpecificThan(other *Name) bool {
	if len(n.givenNames) < len(other.givenNames) {
		return false
	}
	moreSpecific := len(n.givenNames) > len(other.givenNames)
	m := len(other.givenNames)
	for i := 0; i < m; i++ {
		sgn, ogn := n.givenNames[i], other.givenNames[i]
		switch {
		case len(sgn) > 1 && len(ogn) == 1 && strings.HasPrefix(sgn, ogn):
			moreSpecific = true
		case sgn != ogn:
			return false
		}
	}
	return moreSpecific
}

func givenNamesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal implements the non-transitive name-matching relation: an initial is
// consistent with a spelled-out given name, but the two are not
// interchangeable in every direction. Results are memoized per
// (qualifiedFullName, qualifiedFullName) pair on both sides.
func (n *Name) Equal(other *Name) bool {
	if n == other {
		return n.allowSameSpecific
	}

	otherKey := other.QualifiedFullName()
	n.eqMu.Lock()
	if v, ok := n.eqCache[otherKey]; ok {
		n.eqMu.Unlock()
		return v
	}
	n.eqMu.Unlock()

	eq := n.equalUncached(other)

	n.eqMu.Lock()
	if n.eqCache == nil {
		n.eqCache = make(map[string]bool)
	}
	n.eqCache[otherKey] = eq
	n.eqMu.Unlock()

	selfKey := n.QualifiedFullName()
	other.eqMu.Lock()
	if other.eqCache == nil {
		other.eqCache = make(map[string]bool)
	}
	other.eqCache[selfKey] = eq
	other.eqMu.Unlock()

	return eq
}

func (n *Name) equalUncached(other *Name) bool {
	var eq0 bool
	switch {
	case n.lastName != other.lastName:
		eq0 = false
	case n.requireExact || other.requireExact:
		eq0 = givenNamesEqual(n.givenNames, other.givenNames)
	case givenNamesEqual(n.givenNames, other.givenNames):
		eq0 = n.allowSameSpecific && other.allowSameSpecific
	case !nameDataConsistent(n.givenNames, other.givenNames):
		eq0 = false
	case n.requireMoreSpecific || other.requireLessSpecific:
		if other.IsMoreSpecificThan(n) {
			eq0 = true
		} else {
			eq0 = n.allowSameSpecific && other.allowSameSpecific &&
				givenNamesEqual(n.givenNames, other.givenNames)
		}
	case n.requireLessSpecific || other.requireMoreSpecific:
		if n.IsMoreSpecificThan(other) {
			eq0 = true
		} else {
			eq0 = n.allowSameSpecific && other.allowSameSpecific &&
				givenNamesEqual(n.givenNames, other.givenNames)
		}
	default:
		eq0 = true
	}

	if eq0 {
		return true
	}

	if n.allowSynonym && other.allowSynonym {
		if n.synonym != nil && n.synonym.Equal(other) {
			return true
		}
		if other.synonym != nil && other.synonym.Equal(n) {
			return true
		}
	}
	return eq0
}
