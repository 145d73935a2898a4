// internal/app/system/namematch/namematch.go
//
// Package namematch compares student display names written in
// "Last Name, First Name" form. Matching is tolerant of accents, extra
// whitespace, hyphen spacing, and partial first names: "Santos, Roi"
// matches "Santos, Roi Aldrich", and "Bañares, Ana" matches "Banares, Ana".
package namematch

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// stripMarks decomposes accented characters (NFD) and drops the
	// combining marks, so "ñ" folds to "n".
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	hyphenSpacing = regexp.MustCompile(`\s*-\s*`)
	multiSpace    = regexp.MustCompile(`\s+`)

	// lastFirst accepts letters (any script), spaces, apostrophes and
	// hyphens on both sides of a single comma.
	lastFirst = regexp.MustCompile(`^[\p{L}\s'-]+,\s*[\p{L}\s'-]+$`)
)

// Normalize produces the canonical comparison form of a name: trimmed,
// lower-cased, accent-stripped, hyphen spacing collapsed ("a - b" → "a-b"),
// and runs of whitespace reduced to single spaces. It is total (never
// fails) and idempotent.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = hyphenSpacing.ReplaceAllString(s, "-")
	s = multiSpace.ReplaceAllString(s, " ")
	return s
}

// ValidFormat reports whether name is in "Last Name, First Name" form:
// exactly one comma with a non-empty name part on each side, using only
// letters, spaces, apostrophes, and hyphens.
func ValidFormat(name string) bool {
	name = strings.TrimSpace(name)
	if strings.Count(name, ",") != 1 {
		return false
	}
	if !lastFirst.MatchString(name) {
		return false
	}
	last, first, _ := strings.Cut(name, ",")
	return hasLetter(last) && hasLetter(first)
}

// Match reports whether a and b refer to the same person. Both names are
// normalized and split on the comma; last names must match exactly and
// one first name must contain the other ("Angelie" matches "Mary Angelie").
// If either name does not split into exactly two parts, the comparison
// falls back to exact normalized equality. Match is symmetric.
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)

	aLast, aFirst, aOK := splitName(na)
	bLast, bFirst, bOK := splitName(nb)
	if !aOK || !bOK {
		return na == nb
	}

	if aLast != bLast {
		return false
	}
	return strings.Contains(aFirst, bFirst) || strings.Contains(bFirst, aFirst)
}

// OnRoster reports whether name fuzzy-matches any student on the roster.
func OnRoster(name string, roster []models.Student) bool {
	for _, st := range roster {
		if Match(name, st.Name) {
			return true
		}
	}
	return false
}

// FindMembership returns the first group whose member list fuzzy-contains
// name, scanning groups in order and members in membership order.
func FindMembership(name string, groups []models.Group) (models.Group, bool) {
	for _, g := range groups {
		for _, m := range g.Members {
			if Match(name, m) {
				return g, true
			}
		}
	}
	return models.Group{}, false
}

// splitName cuts a normalized name at its comma. ok is false when the
// name does not have exactly one comma with text on both sides.
func splitName(s string) (last, first string, ok bool) {
	if strings.Count(s, ",") != 1 {
		return "", "", false
	}
	last, first, _ = strings.Cut(s, ",")
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	if last == "" || first == "" {
		return "", "", false
	}
	return last, first, true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
