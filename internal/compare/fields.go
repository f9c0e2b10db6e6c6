package compare

import (
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// fieldSpec ties a comparable field to its value extractor and pairwise scorer.
type fieldSpec struct {
	value func(*types.Record) any
	score func(a, b *types.Record, cfg types.CompareConfig) float64
}

var fieldSpecs = map[string]fieldSpec{
	types.FieldTitle: {
		value: func(r *types.Record) any { return r.Title },
		score: func(a, b *types.Record, _ types.CompareConfig) float64 {
			return TitleSimilarity(a.Title, b.Title)
		},
	},
	types.FieldAuthors: {
		value: func(r *types.Record) any { return r.AuthorNames() },
		score: func(a, b *types.Record, _ types.CompareConfig) float64 {
			return SetSimilarity(a.AuthorNames(), b.AuthorNames())
		},
	},
	types.FieldTopics: {
		value: func(r *types.Record) any { return nonNil(r.Keywords) },
		score: func(a, b *types.Record, _ types.CompareConfig) float64 {
			return SetSimilarity(a.Keywords, b.Keywords)
		},
	},
	types.FieldPublicationDate: {
		value: func(r *types.Record) any {
			return types.FormatDate(r.PublicationDate)
		},
		score: func(a, b *types.Record, cfg types.CompareConfig) float64 {
			return DateSimilarity(a.PublicationDate, b.PublicationDate, cfg.DateDecayDays)
		},
	},
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
