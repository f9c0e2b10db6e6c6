// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"
	"strings"

	"github.com/pdiddy/zenodo-mcp/internal/compare"
	"github.com/pdiddy/zenodo-mcp/internal/datatype"
	"github.com/pdiddy/zenodo-mcp/internal/keywords"
	"github.com/pdiddy/zenodo-mcp/internal/zenodo"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// Tool names.
const (
	SearchRecords     = "search_records"
	GetCitation       = "get_citation"
	DetectDataType    = "detect_data_type"
	GetMetadata       = "get_metadata"
	ListFiles         = "list_files"
	CompareRecords    = "compare_records"
	GetRelatedRecords = "get_related_records"
	ExtractKeywords   = "extract_keywords"
	GenerateEmbedLink = "generate_embed_link"
)

type SearchRecordsInput struct {
	Query      string            `json:"query" jsonschema:"search query in Zenodo query syntax"`
	Filters    map[string]string `json:"filters,omitempty" jsonschema:"filters keyed by type, subtype, communities, access_right, file_type or keywords"`
	Sort       string            `json:"sort,omitempty" jsonschema:"sort order: bestmatch, mostrecent, -bestmatch or -mostrecent"`
	Page       int               `json:"page,omitempty" jsonschema:"1-based result page (default 1)"`
	MaxResults int               `json:"max_results,omitempty" jsonschema:"page size between 1 and 100 (default 10)"`
}

type GetCitationInput struct {
	RecordID string `json:"record_id" jsonschema:"numeric Zenodo record ID"`
	Style    string `json:"style,omitempty" jsonschema:"citation style: bibtex, apa or csl (default bibtex)"`
}

type RecordInput struct {
	RecordID string `json:"record_id" jsonschema:"numeric Zenodo record ID"`
}

type GetMetadataInput struct {
	RecordID     string `json:"record_id" jsonschema:"numeric Zenodo record ID"`
	IncludeFiles *bool  `json:"include_files,omitempty" jsonschema:"include the file list (default true)"`
}

type CompareRecordsInput struct {
	RecordIDs     []string `json:"record_ids" jsonschema:"two or more distinct numeric Zenodo record IDs"`
	CompareFields []string `json:"compare_fields,omitempty" jsonschema:"fields to compare: title, authors, topics, publication_date (default all)"`
}

type RelatedRecordsInput struct {
	RecordID            string   `json:"record_id" jsonschema:"numeric Zenodo record ID"`
	MaxResults          int      `json:"max_results,omitempty" jsonschema:"maximum related records to return (default 5)"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty" jsonschema:"minimum similarity between 0 and 1 (default 0.3)"`
}

type ExtractKeywordsInput struct {
	RecordID     string `json:"record_id" jsonschema:"numeric Zenodo record ID"`
	MaxKeywords  int    `json:"max_keywords,omitempty" jsonschema:"maximum keywords to return (default 10)"`
	MinFrequency int    `json:"min_frequency,omitempty" jsonschema:"minimum occurrences for a term (default 2)"`
}

// CitationResult is the get_citation payload.
type CitationResult struct {
	RecordID string `json:"record_id"`
	Style    string `json:"style"`
	Citation string `json:"citation"`
}

// FilesResult is the list_files payload.
type FilesResult struct {
	RecordID  string       `json:"record_id"`
	Files     []types.File `json:"files"`
	TotalSize int64        `json:"total_size"`
}

// RelatedResult is the get_related_records payload.
type RelatedResult struct {
	RecordID   string                `json:"record_id"`
	Related    []types.RelatedRecord `json:"related_records"`
	TotalCount int                   `json:"total_count"`
}

// EmbedResult is the generate_embed_link payload.
type EmbedResult struct {
	RecordID   string         `json:"record_id"`
	EmbedURL   string         `json:"embed_url"`
	RecordType types.DataType `json:"record_type"`
}

// KeywordsResult is the extract_keywords payload.
type KeywordsResult struct {
	RecordID   string          `json:"record_id"`
	Keywords   []types.Keyword `json:"keywords"`
	TotalCount int             `json:"total_count"`
}

func (tk *Toolkit) definitions() []Tool {
	return []Tool{
		define(SearchRecords, "Search Zenodo records by query, with optional filters, sort order and paging.", tk.searchRecords),
		define(GetCitation, "Format the citation of a Zenodo record as BibTeX, APA or CSL-YAML.", tk.getCitation),
		define(DetectDataType, "Classify a Zenodo record as dataset, software, article or other, with a confidence score.", tk.detectDataType),
		define(GetMetadata, "Retrieve the metadata of a Zenodo record.", tk.getMetadata),
		define(ListFiles, "List the files attached to a Zenodo record.", tk.listFiles),
		define(CompareRecords, "Compare two or more Zenodo records field by field with similarity scores.", tk.compareRecords),
		define(GetRelatedRecords, "Find records similar to a Zenodo record by title, keywords and authors.", tk.relatedRecords),
		define(ExtractKeywords, "Extract frequent keywords from a record's title, description and keywords.", tk.extractKeywords),
		define(GenerateEmbedLink, "Create an embeddable link for a Zenodo record, typed by its detected data type.", tk.generateEmbedLink),
	}
}

func (tk *Toolkit) searchRecords(ctx context.Context, in SearchRecordsInput) (any, error) {
	return tk.zenodo.Search(ctx, zenodo.SearchRequest{
		Query:   in.Query,
		Filters: in.Filters,
		Sort:    in.Sort,
		Page:    in.Page,
		Size:    in.MaxResults,
	})
}

func (tk *Toolkit) getCitation(ctx context.Context, in GetCitationInput) (any, error) {
	style, err := zenodo.ParseStyle(in.Style)
	if err != nil {
		return nil, err
	}
	if err := required("record_id", in.RecordID); err != nil {
		return nil, err
	}
	text, err := tk.zenodo.GetCitation(ctx, in.RecordID, string(style))
	if err != nil {
		return nil, err
	}
	return CitationResult{RecordID: strings.TrimSpace(in.RecordID), Style: string(style), Citation: text}, nil
}

func (tk *Toolkit) detectDataType(ctx context.Context, in RecordInput) (any, error) {
	rec, err := tk.record(ctx, in.RecordID)
	if err != nil {
		return nil, err
	}
	return datatype.Detect(rec), nil
}

func (tk *Toolkit) getMetadata(ctx context.Context, in GetMetadataInput) (any, error) {
	rec, err := tk.record(ctx, in.RecordID)
	if err != nil {
		return nil, err
	}
	if in.IncludeFiles != nil && !*in.IncludeFiles {
		rec.Files = nil
	}
	return rec, nil
}

func (tk *Toolkit) listFiles(ctx context.Context, in RecordInput) (any, error) {
	if err := required("record_id", in.RecordID); err != nil {
		return nil, err
	}
	files, err := tk.zenodo.ListFiles(ctx, in.RecordID)
	if err != nil {
		return nil, err
	}
	res := FilesResult{RecordID: strings.TrimSpace(in.RecordID), Files: files}
	if res.Files == nil {
		res.Files = []types.File{}
	}
	for _, f := range files {
		res.TotalSize += f.Size
	}
	return res, nil
}

func (tk *Toolkit) compareRecords(ctx context.Context, in CompareRecordsInput) (any, error) {
	return tk.comparer.Compare(ctx, types.ComparisonRequest{
		RecordIDs:     in.RecordIDs,
		CompareFields: in.CompareFields,
	})
}

func (tk *Toolkit) relatedRecords(ctx context.Context, in RelatedRecordsInput) (any, error) {
	if err := required("record_id", in.RecordID); err != nil {
		return nil, err
	}
	threshold := compare.DefaultRelatedThreshold
	if in.SimilarityThreshold != nil {
		threshold = *in.SimilarityThreshold
	}
	related, err := tk.comparer.Related(ctx, strings.TrimSpace(in.RecordID), in.MaxResults, threshold)
	if err != nil {
		return nil, err
	}
	return RelatedResult{RecordID: strings.TrimSpace(in.RecordID), Related: related, TotalCount: len(related)}, nil
}

func (tk *Toolkit) extractKeywords(ctx context.Context, in ExtractKeywordsInput) (any, error) {
	rec, err := tk.record(ctx, in.RecordID)
	if err != nil {
		return nil, err
	}
	kws := keywords.Extract(rec, in.MaxKeywords, in.MinFrequency)
	return KeywordsResult{RecordID: rec.ID, Keywords: kws, TotalCount: len(kws)}, nil
}

func (tk *Toolkit) generateEmbedLink(ctx context.Context, in RecordInput) (any, error) {
	rec, err := tk.record(ctx, in.RecordID)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(in.RecordID)
	return EmbedResult{
		RecordID:   id,
		EmbedURL:   tk.zenodo.EmbedURL(id),
		RecordType: datatype.Detect(rec).DataType,
	}, nil
}

func (tk *Toolkit) record(ctx context.Context, id string) (*types.Record, error) {
	if err := required("record_id", id); err != nil {
		return nil, err
	}
	return tk.zenodo.GetRecord(ctx, id)
}
