// Package turkish provides locale-correct folding for word comparison.
// Turkish has two distinct i letters (dotted i / dotless ı), so the generic
// unicode lowering breaks equality checks: İ must fold to i and I to ı.
package turkish

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower trims surrounding whitespace and lower-cases with Turkish casing
// rules. Idempotent; two words are the same word iff their Lower forms are
// equal. A Caser is stateful, so one is built per call.
func Lower(s string) string {
	return cases.Lower(language.Turkish).String(strings.TrimSpace(s))
}

// FirstLetter returns the first rune of the folded word, or 0 when empty.
func FirstLetter(s string) rune {
	w := Lower(s)
	if w == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(w)
	return r
}

// LastLetter returns the last rune of the folded word, or 0 when empty.
func LastLetter(s string) rune {
	w := Lower(s)
	if w == "" {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(w)
	return r
}
