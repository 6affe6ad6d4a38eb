// Package similarity scores how alike two normalized merchant strings are.
// The score blends token-set overlap, Levenshtein edit distance, and a
// common-prefix bonus; it is tuned for bank-statement noise, not open-domain
// fuzzy matching.
package similarity

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Signal weights. Token overlap and edit distance carry most of the score;
// the prefix bonus nudges strings that diverge only in their tails.
const (
	tokenWeight  = 0.4
	editWeight   = 0.4
	prefixWeight = 0.2

	// The prefix signal only fires past this many matching leading
	// characters, halved so a shared prefix alone never dominates.
	minPrefixLen = 3
	prefixDamp   = 0.5
)

// Score returns a similarity in [0,1]. It is symmetric, Score(x, x) == 1,
// and any comparison against the empty string is 0.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	score := tokenWeight*tokenOverlap(a, b) +
		editWeight*editRatio(a, b) +
		prefixWeight*prefixBonus(a, b)

	if score > 1 {
		return 1
	}
	return score
}

// tokenOverlap is the Jaccard index over whitespace-split tokens, ignoring
// single-character tokens.
func tokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		if len([]rune(tok)) > 1 {
			set[tok] = struct{}{}
		}
	}
	return set
}

// editRatio normalizes the Levenshtein distance by the longer string's
// length: 1 means identical, 0 means every character differs.
func editRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 0
	}

	// DefaultOptionsWithSub gives classic unit costs; the library's
	// DefaultOptions charges substitutions as insert+delete, which inflates
	// the distance past the longer length and would push the ratio negative.
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptionsWithSub)

	return 1 - float64(distance)/float64(longer)
}

// prefixBonus rewards a shared leading run longer than minPrefixLen,
// proportional to the shorter string and damped by half.
func prefixBonus(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	shorter := len(ra)
	if len(rb) < shorter {
		shorter = len(rb)
	}

	match := 0
	for i := 0; i < shorter; i++ {
		if ra[i] != rb[i] {
			break
		}
		match++
	}

	if match <= minPrefixLen {
		return 0
	}
	return float64(match) / float64(shorter) * prefixDamp
}
