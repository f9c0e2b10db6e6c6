// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compare scores the agreement of Zenodo records over a fixed set of
// metadata fields. Records are fetched per request and never cached.
package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/zenodo-mcp/internal/zenodo"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// Fetcher loads one record by ID.
type Fetcher interface {
	GetRecord(ctx context.Context, id string) (*types.Record, error)
}

// Source is a Fetcher that can also search. Related-record ranking needs it.
type Source interface {
	Fetcher
	Search(ctx context.Context, req zenodo.SearchRequest) (*types.SearchPage, error)
}

// Engine compares records fetched from a Source.
type Engine struct {
	src    Source
	cfg    types.CompareConfig
	logger *slog.Logger
}

// NewEngine returns an engine over src. Zero-valued config fields take their
// defaults.
func NewEngine(src Source, cfg types.CompareConfig, logger *slog.Logger) *Engine {
	def := types.DefaultCompareConfig()
	if cfg.DateDecayDays <= 0 {
		cfg.DateDecayDays = def.DateDecayDays
	}
	if cfg.MaxConcurrentFetches <= 0 {
		cfg.MaxConcurrentFetches = def.MaxConcurrentFetches
	}
	if cfg.RelatedTitleWeight == 0 && cfg.RelatedTopicsWeight == 0 && cfg.RelatedAuthorsWeight == 0 {
		cfg.RelatedTitleWeight = def.RelatedTitleWeight
		cfg.RelatedTopicsWeight = def.RelatedTopicsWeight
		cfg.RelatedAuthorsWeight = def.RelatedAuthorsWeight
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{src: src, cfg: cfg, logger: logger}
}

// Compare fetches every requested record and scores the requested fields.
// Input is validated before any fetch. A single unresolved record fails the
// whole comparison.
func (e *Engine) Compare(ctx context.Context, req types.ComparisonRequest) (*types.ComparisonResult, error) {
	ids, fields, err := Validate(req)
	if err != nil {
		return nil, err
	}

	records, err := e.fetchAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("comparing records", "ids", ids, "fields", fields)
	return CompareRecords(ids, records, fields, e.cfg), nil
}

// Validate normalizes a comparison request. It returns the distinct record
// IDs in first-occurrence order and the field list, defaulting to every
// comparable field.
func Validate(req types.ComparisonRequest) ([]string, []string, error) {
	seen := make(map[string]bool, len(req.RecordIDs))
	ids := make([]string, 0, len(req.RecordIDs))
	for _, raw := range req.RecordIDs {
		id := strings.TrimSpace(raw)
		if !zenodo.IsRecordID(id) {
			return nil, nil, &zenodo.ValidationError{
				Field:   "record_ids",
				Message: fmt.Sprintf("%q is not a numeric Zenodo record ID", raw),
			}
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) < 2 {
		return nil, nil, &zenodo.ValidationError{
			Field:   "record_ids",
			Message: fmt.Sprintf("at least 2 distinct record IDs are required, got %d", len(ids)),
		}
	}

	if len(req.CompareFields) == 0 {
		return ids, append([]string(nil), types.ComparableFields...), nil
	}
	fields := make([]string, 0, len(req.CompareFields))
	seenField := make(map[string]bool, len(req.CompareFields))
	for _, f := range req.CompareFields {
		if _, ok := fieldSpecs[f]; !ok {
			return nil, nil, &zenodo.ValidationError{
				Field: "compare_fields",
				Message: fmt.Sprintf("unsupported field %q (use %s)",
					f, strings.Join(types.ComparableFields, ", ")),
			}
		}
		if !seenField[f] {
			seenField[f] = true
			fields = append(fields, f)
		}
	}
	return ids, fields, nil
}

// fetchAll loads the records concurrently, bounded by MaxConcurrentFetches.
// When several fetches fail, the error of the earliest ID in request order
// is returned so the outcome does not depend on scheduling.
func (e *Engine) fetchAll(ctx context.Context, ids []string) ([]*types.Record, error) {
	records := make([]*types.Record, len(ids))
	errs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxConcurrentFetches)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := e.src.GetRecord(gctx, id)
			if err != nil {
				errs[i] = err
				return err
			}
			records[i] = rec
			return nil
		})
	}
	waitErr := g.Wait()
	if waitErr == nil {
		return records, nil
	}

	for i, err := range errs {
		if err == nil || errors.Is(err, context.Canceled) {
			continue
		}
		var up *zenodo.UpstreamError
		if errors.As(err, &up) && errors.Is(up.Err, context.Canceled) {
			continue
		}
		e.logger.Warn("record fetch failed", "record_id", ids[i], "error", err)
		return nil, err
	}
	return nil, waitErr
}

// CompareRecords scores already-fetched records. ids[i] is the ID that
// records[i] was requested under and keys its values, even when Zenodo
// answered with another version of the record. Fields appear in the given
// order.
func CompareRecords(ids []string, records []*types.Record, fields []string, cfg types.CompareConfig) *types.ComparisonResult {
	if cfg.DateDecayDays <= 0 {
		cfg.DateDecayDays = types.DefaultDateDecayDays
	}
	result := &types.ComparisonResult{Fields: make([]types.FieldComparison, 0, len(fields))}
	total := 0.0
	for _, f := range fields {
		spec := fieldSpecs[f]
		values := make(map[string]any, len(records))
		for i, r := range records {
			values[ids[i]] = spec.value(r)
		}
		score := pairwiseMean(len(records), func(i, j int) float64 {
			return spec.score(records[i], records[j], cfg)
		})
		score = round3(score)
		total += score
		result.Fields = append(result.Fields, types.FieldComparison{
			Field:           f,
			Values:          values,
			SimilarityScore: score,
		})
	}
	if len(fields) > 0 {
		result.OverallSimilarity = round3(total / float64(len(fields)))
	}
	return result
}
