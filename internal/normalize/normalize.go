// Package normalize canonicalizes journal titles for reliable equality
// comparison across inconsistently formatted bibliographic sources.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes characters and removes combining marks,
// so "Résumé" compares equal to "Resume".
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	apostrophes = regexp.MustCompile("[’'`]")
	articleThe  = regexp.MustCompile(`\bthe\b`)
	noiseTokens = regexp.MustCompile(`\((journal|magazine|print|online|electronic)\)`)
	nonAlnum    = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// Title maps a raw journal title to its canonical comparison key.
//
// Transformations, applied in order: accent folding, lowercasing,
// parenthesized noise-token removal, "&" to " and ", apostrophe removal,
// "the" removal, remaining punctuation to spaces, whitespace collapse,
// trim. Each step is idempotent, so Title(Title(s)) == Title(s).
func Title(s string) string {
	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = noiseTokens.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&", " and ")
	s = apostrophes.ReplaceAllString(s, "")
	s = articleThe.ReplaceAllString(s, " ")
	s = nonAlnum.ReplaceAllString(s, " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
