// Package search holds the text folding shared by task search and the
// listing cache keys.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the caseless form of s, so "Éclair" and "ÉCLAIR" fold alike
// and "Straße" folds to "strasse".
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Contains reports whether term occurs in text, ignoring case. term must
// already be folded.
func Contains(text, foldedTerm string) bool {
	return strings.Contains(Fold(text), foldedTerm)
}
