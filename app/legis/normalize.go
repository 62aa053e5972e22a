package legis

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents removes combining marks after NFD decomposition, so that
// "tramitación" and "tramitacion" compare equal.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, strips accents and collapses whitespace. Every
// classifier and matcher compares normalized text only.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		// Transform only fails on invalid UTF-8; fall back to the raw input.
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// containsAny reports whether the normalized text contains any of the given
// normalized stems.
func containsAny(text string, stems ...string) bool {
	for _, stem := range stems {
		if strings.Contains(text, stem) {
			return true
		}
	}
	return false
}
