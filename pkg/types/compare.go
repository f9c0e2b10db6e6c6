// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Comparable record fields. Any other field name is rejected by the
// comparison engine.
const (
	FieldTitle           = "title"
	FieldAuthors         = "authors"
	FieldTopics          = "topics"
	FieldPublicationDate = "publication_date"
)

// ComparableFields lists the recognized fields in canonical order. It is
// also the default field list when a request names none.
var ComparableFields = []string{FieldTitle, FieldAuthors, FieldTopics, FieldPublicationDate}

// ComparisonRequest names the records and fields to compare.
type ComparisonRequest struct {
	RecordIDs     []string `json:"record_ids"`
	CompareFields []string `json:"compare_fields"`
}

// FieldComparison holds one field's value per record and the averaged
// pairwise similarity in [0, 1].
type FieldComparison struct {
	Field           string         `json:"field" yaml:"field"`
	Values          map[string]any `json:"values" yaml:"values"`
	SimilarityScore float64        `json:"similarity_score" yaml:"similarity_score"`
}

// ComparisonResult is ordered like the requested field list.
type ComparisonResult struct {
	Fields            []FieldComparison `json:"comparison_results" yaml:"comparison_results"`
	OverallSimilarity float64           `json:"overall_similarity" yaml:"overall_similarity"`
}

// RelatedRecord is a search hit scored against a source record.
type RelatedRecord struct {
	RecordID   string  `json:"record_id" yaml:"record_id"`
	Title      string  `json:"title" yaml:"title"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// DataType is the coarse classification of a record.
type DataType string

const (
	DataTypeDataset  DataType = "dataset"
	DataTypeSoftware DataType = "software"
	DataTypeArticle  DataType = "article"
	DataTypeOther    DataType = "other"
)

// Signal records one detection rule that fired and the category it voted for.
type Signal struct {
	Name   string   `json:"name" yaml:"name"`
	Weight float64  `json:"weight" yaml:"weight"`
	Vote   DataType `json:"vote" yaml:"vote"`
	Detail string   `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// DataTypeResult is the outcome of data-type detection.
type DataTypeResult struct {
	RecordID   string   `json:"record_id" yaml:"record_id"`
	DataType   DataType `json:"data_type" yaml:"data_type"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Signals    []Signal `json:"signals" yaml:"signals"`
}

// Keyword is a term and how often it occurs.
type Keyword struct {
	Keyword   string `json:"keyword" yaml:"keyword"`
	Frequency int    `json:"frequency" yaml:"frequency"`
}
