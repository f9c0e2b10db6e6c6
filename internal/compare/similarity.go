package compare

import (
	"math"
	"strings"
	"time"
	"unicode"
)

type set map[string]struct{}

// wordSet returns the lowercased words of s. Punctuation separates words.
func wordSet(s string) set {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(set, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

// nameSet lowercases and trims each value, dropping empties.
func nameSet(values []string) set {
	out := make(set, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.Join(strings.Fields(v), " "))
		if v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

// jaccard is |a∩b| / |a∪b|. Two empty sets are identical (1.0); exactly one
// empty set shares nothing (0.0).
func jaccard(a, b set) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// TitleSimilarity is the word-set Jaccard of two titles.
func TitleSimilarity(a, b string) float64 {
	return jaccard(wordSet(a), wordSet(b))
}

// SetSimilarity is the Jaccard of two name or keyword lists, case-insensitive.
func SetSimilarity(a, b []string) float64 {
	return jaccard(nameSet(a), nameSet(b))
}

// DateSimilarity decays linearly with the day distance between a and b,
// reaching 0 at decayDays. Zero times count as absent.
func DateSimilarity(a, b time.Time, decayDays float64) float64 {
	switch {
	case a.IsZero() && b.IsZero():
		return 1.0
	case a.IsZero() || b.IsZero():
		return 0.0
	}
	if decayDays <= 0 {
		if a.Equal(b) {
			return 1.0
		}
		return 0.0
	}
	days := math.Abs(a.Sub(b).Hours()) / 24
	return math.Max(0, 1-days/decayDays)
}

// pairwiseMean averages score over every unordered pair of n items.
func pairwiseMean(n int, score func(i, j int) float64) float64 {
	if n < 2 {
		return 1.0
	}
	total, pairs := 0.0, 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			total += score(i, j)
			pairs++
		}
	}
	return total / float64(pairs)
}

// round3 keeps scores stable across platforms in JSON output.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
