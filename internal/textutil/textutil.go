// Package textutil holds the small text normalization helpers shared by the
// corpus builder and the translation path.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CollapseSpaces replaces every run of whitespace with a single space and
// trims both ends.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize collapses whitespace and lower-cases s.
func Normalize(s string) string {
	return strings.ToLower(CollapseSpaces(s))
}

// IsPunctuation reports whether tok is one of the sentence punctuation
// tokens that are never translated or removed.
func IsPunctuation(tok string) bool {
	switch tok {
	case ".", ",", "?", "!":
		return true
	}
	return false
}

// StripBrackets removes round and square bracket characters.
func StripBrackets(s string) string {
	return strings.NewReplacer("(", "", ")", "", "[", "", "]", "").Replace(s)
}

// Capitalize upper-cases the first letter of word and lower-cases the rest.
func Capitalize(word string) string {
	return cases.Title(language.German).String(word)
}
