// Package textnorm normalizes Arabic and Tajik text for matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// tashkeel covers the Arabic harakat block plus the superscript alef.
var tashkeel = runes.Predicate(func(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670
})

// FoldTajik returns the Unicode case-folded form of s. Cyrillic letters such as
// Ӣ, Ӯ and Ҳ fold the same way regardless of the input case.
func FoldTajik(s string) string {
	return cases.Fold().String(s)
}

// StripTashkeel removes Arabic diacritics and the tatweel character.
func StripTashkeel(s string) string {
	t := transform.Chain(runes.Remove(tashkeel), runes.Remove(runes.In(tatweel)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

var tatweel = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0640, Hi: 0x0640, Stride: 1}}}

// Words splits s on any run of whitespace.
func Words(s string) []string {
	return strings.Fields(s)
}
