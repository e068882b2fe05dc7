package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text and strips combining diacritical marks so that
// "Locação" and "locacao" compare equal. It never fails: on a transform error
// the lowercased input is returned unchanged.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, lowered)
	if err != nil {
		return lowered
	}
	return out
}
