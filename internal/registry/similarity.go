package registry

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
)

// Similarity returns a length-normalized similarity ratio in [0,1] between a
// and b. Both strings are compared case-insensitively with separators and
// punctuation removed, so "Demon.Slayer" and "demon slayer" are identical.
//
// The ratio is derived from the LCS edit distance (insertions and deletions
// only): 1 - distance / (len(a) + len(b)). It is symmetric, and two strings
// with no letters or digits compare as identical.
func Similarity(a, b string) float64 {
	ka, kb := comparisonKey(a), comparisonKey(b)
	total := len([]rune(ka)) + len([]rune(kb))
	if total == 0 {
		return 1
	}
	distance := edlib.LCSEditDistance(ka, kb)
	return 1 - float64(distance)/float64(total)
}

// comparisonKey lowercases s and keeps only letters and digits.
func comparisonKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
