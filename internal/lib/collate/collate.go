// Package collate holds the single definition of the name comparison used by
// every uniqueness check in the catalog: case-insensitive and
// accent-insensitive, so "Été" and "ete" are the same album name.
package collate

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns the canonical comparison form of s: combining marks stripped,
// then lower-cased. Falls back to plain lower-casing if transformation fails.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		return strings.ToLower(s)
	}

	return strings.ToLower(out)
}

// EqualFold reports whether a and b are the same name under catalog collation.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
