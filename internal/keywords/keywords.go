// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords extracts frequent terms from a record's title,
// description and keyword list.
package keywords

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

const (
	DefaultMax          = 10
	DefaultMinFrequency = 2
	minTermLength       = 3
)

var stopWords = toSet(
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "has", "he",
	"in", "is", "it", "its", "of", "on", "that", "the", "to", "was", "were",
	"will", "with", "this", "but", "they", "have", "had", "what", "when",
	"where", "who", "which", "why", "how", "all", "any", "both", "each", "few",
	"more", "most", "other", "some", "such", "no", "nor", "not", "only", "own",
	"same", "so", "than", "too", "very", "can", "just", "should", "now",
	"these", "those", "our", "their", "into", "also", "using", "used",
)

// Extract counts terms across the record text and returns up to limit of the
// most frequent ones occurring at least minFrequency times. Ties are broken
// alphabetically. Non-positive arguments take their defaults.
func Extract(rec *types.Record, limit, minFrequency int) []types.Keyword {
	if limit <= 0 {
		limit = DefaultMax
	}
	if minFrequency <= 0 {
		minFrequency = DefaultMinFrequency
	}

	counts := map[string]int{}
	for _, text := range []string{rec.Title, StripHTML(rec.Description), strings.Join(rec.Keywords, " ")} {
		for _, term := range Terms(text) {
			counts[term]++
		}
	}

	out := make([]types.Keyword, 0, len(counts))
	for term, n := range counts {
		if n >= minFrequency {
			out = append(out, types.Keyword{Keyword: term, Frequency: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Terms lowercases text, splits it on anything but letters, and drops stop
// words and terms shorter than three letters. Digits are separators.
func Terms(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) < minTermLength || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// StripHTML returns the text content of an HTML fragment. Zenodo stores
// descriptions as HTML.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return html.UnescapeString(s)
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; keep what was read.
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
