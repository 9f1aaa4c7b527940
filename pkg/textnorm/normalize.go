// Package textnorm folds free-form survey input into a comparable form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims, lowercases and strips combining diacritical marks so that
// "  Almacén C " and "almacen c" compare equal.
func Normalize(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(trimmed))
	if err != nil {
		return strings.ToLower(trimmed)
	}
	return folded
}

// Equal reports whether two inputs are equal after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
