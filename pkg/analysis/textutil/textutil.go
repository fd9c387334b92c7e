// Package textutil holds the small rune-level helpers shared by the
// analysis packages.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r belongs to a word: letters, digits, the
// underscore and combining marks left behind by decomposition.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// IsUpper reports whether s has at least one cased letter and no lowercase
// letters.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// Span is a byte range [Start, End) of a string.
type Span struct {
	Start int
	End   int
}

// WordSpans returns the maximal runs of word runes in s.
func WordSpans(s string) []Span {
	var spans []Span
	start := -1
	for i, r := range s {
		if IsWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, Span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, Span{start, len(s)})
	}
	return spans
}

// CapsRatio is the share of whitespace-delimited words longer than two
// characters that are entirely uppercase.
func CapsRatio(s string) float64 {
	words := strings.Fields(s)
	if len(words) == 0 {
		return 0
	}
	caps := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) > 2 && IsUpper(w) {
			caps++
		}
	}
	return float64(caps) / float64(len(words))
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
