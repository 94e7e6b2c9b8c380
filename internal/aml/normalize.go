package aml

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes to NFD, drops combining marks, and
// recomposes, so "Traoré" and "Traore" normalize identically.
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeName produces the canonical screening form of a name:
// diacritics stripped, case-folded, punctuation collapsed to spaces,
// whitespace normalized. Token order is preserved; order-insensitive
// comparison uses TokenSort on top of this.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		stripped = name
	}
	var b strings.Builder
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TokenSort returns the normalized name with tokens sorted, so compound
// surnames and reordered given names ("Diallo Mamadou" vs "Mamadou
// Diallo") compare equal.
func TokenSort(normalized string) string {
	tokens := strings.Fields(normalized)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
