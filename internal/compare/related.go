// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/zenodo-mcp/internal/zenodo"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

const (
	DefaultRelatedMax       = 5
	DefaultRelatedThreshold = 0.3

	// relatedCandidates is the search page size used to gather candidates.
	relatedCandidates = 25
	maxQueryKeywords  = 3
)

// Related finds records similar to id. Candidates come from a Zenodo search
// on the record's title and leading keywords and are scored as a weighted
// blend of title, topic and author similarity. Candidates scoring below
// threshold and the record itself are dropped.
func (e *Engine) Related(ctx context.Context, id string, limit int, threshold float64) ([]types.RelatedRecord, error) {
	if limit <= 0 {
		limit = DefaultRelatedMax
	}
	if threshold < 0 || threshold > 1 {
		return nil, &zenodo.ValidationError{
			Field:   "similarity_threshold",
			Message: fmt.Sprintf("must be within [0, 1], got %g", threshold),
		}
	}

	src, err := e.src.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	query := relatedQuery(src)
	if query == "" {
		return []types.RelatedRecord{}, nil
	}
	page, err := e.src.Search(ctx, zenodo.SearchRequest{Query: query, Size: relatedCandidates})
	if err != nil {
		return nil, fmt.Errorf("searching related records: %w", err)
	}

	seen := map[string]bool{src.ID: true}
	related := make([]types.RelatedRecord, 0, len(page.Records))
	for i := range page.Records {
		cand := &page.Records[i]
		if seen[cand.ID] {
			continue
		}
		seen[cand.ID] = true

		score := round3(e.relatedScore(src, cand))
		if score < threshold {
			continue
		}
		related = append(related, types.RelatedRecord{
			RecordID:   cand.ID,
			Title:      cand.Title,
			Similarity: score,
		})
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Similarity > related[j].Similarity
	})
	if len(related) > limit {
		related = related[:limit]
	}
	e.logger.Debug("related records", "record_id", src.ID, "candidates", len(page.Records), "kept", len(related))
	return related, nil
}

func (e *Engine) relatedScore(a, b *types.Record) float64 {
	return e.cfg.RelatedTitleWeight*TitleSimilarity(a.Title, b.Title) +
		e.cfg.RelatedTopicsWeight*SetSimilarity(a.Keywords, b.Keywords) +
		e.cfg.RelatedAuthorsWeight*SetSimilarity(a.AuthorNames(), b.AuthorNames())
}

// relatedQuery builds the candidate search query from the title and the
// first few keywords.
func relatedQuery(r *types.Record) string {
	parts := make([]string, 0, 1+maxQueryKeywords)
	if t := strings.TrimSpace(r.Title); t != "" {
		parts = append(parts, t)
	}
	for i, k := range r.Keywords {
		if i == maxQueryKeywords {
			break
		}
		if k = strings.TrimSpace(k); k != "" {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " ")
}
