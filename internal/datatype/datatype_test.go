// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

func files(keys ...string) []types.File {
	out := make([]types.File, len(keys))
	for i, k := range keys {
		out[i] = types.File{Key: k}
	}
	return out
}

func TestResourceTypeRule(t *testing.T) {
	tests := []struct {
		typ   string
		want  types.DataType
		fired bool
	}{
		{"dataset", types.DataTypeDataset, true},
		{"Software", types.DataTypeSoftware, true},
		{"publication", types.DataTypeArticle, true},
		{"image", types.DataTypeOther, true},
		{"", "", false},
	}
	for _, tt := range tests {
		vote, _, fired := resourceTypeRule(&types.Record{ResourceType: types.ResourceType{Type: tt.typ}})
		assert.Equal(t, tt.fired, fired, tt.typ)
		assert.Equal(t, tt.want, vote, tt.typ)
	}
}

func TestFileExtensionRule(t *testing.T) {
	vote, detail, fired := fileExtensionRule(&types.Record{Files: files("a.CSV", "b.csv", "main.py", "README")})
	require.True(t, fired)
	assert.Equal(t, types.DataTypeDataset, vote)
	assert.Equal(t, "csv,py", detail)

	// Ties go to software, then dataset, then article.
	vote, _, _ = fileExtensionRule(&types.Record{Files: files("paper.pdf", "data.csv")})
	assert.Equal(t, types.DataTypeDataset, vote)

	_, _, fired = fileExtensionRule(&types.Record{Files: files("README", "archive.zip")})
	assert.False(t, fired)
}

func TestVenueRule(t *testing.T) {
	vote, detail, fired := venueRule(&types.Record{Venue: "Nature"})
	assert.True(t, fired)
	assert.Equal(t, types.DataTypeArticle, vote)
	assert.Equal(t, "Nature", detail)

	_, _, fired = venueRule(&types.Record{Venue: "  "})
	assert.False(t, fired)
}

func TestKeywordRule(t *testing.T) {
	vote, detail, fired := keywordRule(&types.Record{Keywords: []string{"Climate", "Measurement"}})
	assert.True(t, fired)
	assert.Equal(t, types.DataTypeDataset, vote)
	assert.Equal(t, `keyword "measurement"`, detail)

	vote, _, _ = keywordRule(&types.Record{Keywords: []string{"paper", "Library"}})
	assert.Equal(t, types.DataTypeSoftware, vote)

	_, _, fired = keywordRule(&types.Record{Keywords: []string{"deep learning"}})
	assert.False(t, fired)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		rec        types.Record
		want       types.DataType
		confidence float64
		signals    int
	}{
		{
			name:       "no signals",
			rec:        types.Record{ID: "1"},
			want:       types.DataTypeOther,
			confidence: 0,
		},
		{
			name: "all signals agree",
			rec: types.Record{
				ID:           "2",
				ResourceType: types.ResourceType{Type: "publication"},
				Files:        files("paper.pdf"),
				Venue:        "Journal of Things",
				Keywords:     []string{"paper"},
			},
			want:       types.DataTypeArticle,
			confidence: 1.0,
			signals:    4,
		},
		{
			name: "resource type alone",
			rec:  types.Record{ID: "3", ResourceType: types.ResourceType{Type: "dataset"}},
			want: types.DataTypeDataset,
			// (0.5/1.0) x (0.5/0.5)
			confidence: 0.5,
			signals:    1,
		},
		{
			name: "conflict lowers confidence",
			rec: types.Record{
				ID:           "4",
				ResourceType: types.ResourceType{Type: "dataset"},
				Files:        files("run.py", "lib.py"),
			},
			want: types.DataTypeDataset,
			// (0.5/1.0) x (0.5/0.75)
			confidence: 0.333,
			signals:    2,
		},
		{
			name: "tie goes to earliest rule",
			rec: types.Record{
				ID:       "5",
				Files:    files("run.py"),
				Venue:    "Proceedings",
				Keywords: []string{"paper"},
			},
			want: types.DataTypeSoftware,
			// article 0.25 ties software 0.25; software fired first.
			confidence: 0.125,
			signals:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(&tt.rec)
			assert.Equal(t, tt.rec.ID, got.RecordID)
			assert.Equal(t, tt.want, got.DataType)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.Len(t, got.Signals, tt.signals)
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	rec := types.Record{
		ID:           "9",
		ResourceType: types.ResourceType{Type: "software"},
		Files:        files("a.csv", "b.py", "c.pdf", "d.json"),
		Keywords:     []string{"data", "code"},
	}
	first := Detect(&rec)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Detect(&rec))
	}
}

func TestDetectWith_CustomTable(t *testing.T) {
	always := func(dt types.DataType) func(*types.Record) (types.DataType, string, bool) {
		return func(*types.Record) (types.DataType, string, bool) { return dt, "", true }
	}
	rules := []Rule{
		{Name: "a", Weight: 1, Eval: always(types.DataTypeArticle)},
		{Name: "b", Weight: 2, Eval: always(types.DataTypeSoftware)},
		{Name: "c", Weight: 1, Eval: always(types.DataTypeArticle)},
	}
	got := DetectWith(rules, &types.Record{})
	// 2 vs 2: article voted first.
	assert.Equal(t, types.DataTypeArticle, got.DataType)
	assert.InDelta(t, 0.25, got.Confidence, 1e-9)
}
