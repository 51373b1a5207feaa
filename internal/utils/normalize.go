package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold lowercases s without regard to locale. It is used on both the stored
// history and the typed prefix so lookups are case-insensitive.
// Each run of invalid UTF-8 bytes becomes a single U+FFFD first, so the
// result is valid and every backend stores the same text.
// A new Caser is built per call since cases.Caser is not safe for concurrent use.
func Fold(s string) string {
	if s == "" {
		return s
	}
	return cases.Lower(language.Und).String(strings.ToValidUTF8(s, string(utf8.RuneError)))
}

// SplitWords breaks text into words on every rune that is neither a letter
// nor a digit. Empty fields are dropped.
func SplitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent items.
// Useful for ranking items that are already sorted.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range count {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
