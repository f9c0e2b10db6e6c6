// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zenodo-mcp/internal/zenodo"
	"github.com/pdiddy/zenodo-mcp/internal/zenodotest"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// fakeSource serves records from memory and counts fetches.
type fakeSource struct {
	records map[string]types.Record
	page    *types.SearchPage
	errs    map[string]error
	delay   map[string]time.Duration

	fetches  atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32

	mu       sync.Mutex
	searched []zenodo.SearchRequest
}

func (f *fakeSource) GetRecord(ctx context.Context, id string) (*types.Record, error) {
	f.fetches.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if d := f.delay[id]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, &zenodo.NotFoundError{RecordID: id}
	}
	return &rec, nil
}

func (f *fakeSource) Search(_ context.Context, req zenodo.SearchRequest) (*types.SearchPage, error) {
	f.mu.Lock()
	f.searched = append(f.searched, req)
	f.mu.Unlock()
	if f.page == nil {
		return &types.SearchPage{Query: req.Query}, nil
	}
	return f.page, nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func creators(names ...string) []types.Creator {
	out := make([]types.Creator, len(names))
	for i, n := range names {
		out[i] = types.Creator{Name: n}
	}
	return out
}

func surveyRecords() map[string]types.Record {
	return map[string]types.Record{
		"1234567": {
			ID:              "1234567",
			Title:           "Deep Learning Survey",
			Creators:        creators("Smith, Jane", "Doe, John"),
			Keywords:        []string{"deep learning", "survey"},
			PublicationDate: date("2023-01-01"),
		},
		"7654321": {
			ID:              "7654321",
			Title:           "A Survey of Deep Learning",
			Creators:        creators("Smith, Jane", "Roe, Richard"),
			Keywords:        []string{"Deep Learning"},
			PublicationDate: date("2023-07-02"),
		},
	}
}

func newTestEngine(src Source) *Engine {
	return NewEngine(src, types.CompareConfig{}, nil)
}

func TestCompare_Scenario(t *testing.T) {
	src := &fakeSource{records: surveyRecords()}
	e := newTestEngine(src)

	res, err := e.Compare(context.Background(), types.ComparisonRequest{
		RecordIDs:     []string{"1234567", "7654321"},
		CompareFields: []string{"title", "authors"},
	})
	require.NoError(t, err)
	require.Len(t, res.Fields, 2)

	title := res.Fields[0]
	assert.Equal(t, "title", title.Field)
	assert.Equal(t, "Deep Learning Survey", title.Values["1234567"])
	assert.Equal(t, "A Survey of Deep Learning", title.Values["7654321"])
	assert.InDelta(t, 0.6, title.SimilarityScore, 1e-9)

	authors := res.Fields[1]
	assert.Equal(t, "authors", authors.Field)
	assert.Equal(t, []string{"Smith, Jane", "Doe, John"}, authors.Values["1234567"])
	assert.Equal(t, []string{"Smith, Jane", "Roe, Richard"}, authors.Values["7654321"])
	assert.InDelta(t, 0.333, authors.SimilarityScore, 1e-9)

	assert.InDelta(t, 0.467, res.OverallSimilarity, 0.001)
}

func TestCompare_IdenticalRecordsScoreOne(t *testing.T) {
	rec := surveyRecords()["1234567"]
	records := map[string]types.Record{}
	for _, id := range []string{"1", "2", "3"} {
		r := rec
		r.ID = id
		records[id] = r
	}
	e := newTestEngine(&fakeSource{records: records})

	res, err := e.Compare(context.Background(), types.ComparisonRequest{RecordIDs: []string{"1", "2", "3"}})
	require.NoError(t, err)
	require.Len(t, res.Fields, len(types.ComparableFields))
	for _, fc := range res.Fields {
		assert.Equal(t, 1.0, fc.SimilarityScore, fc.Field)
	}
	assert.Equal(t, 1.0, res.OverallSimilarity)
}

func TestCompare_DisjointAuthorsScoreZero(t *testing.T) {
	e := newTestEngine(&fakeSource{records: map[string]types.Record{
		"1": {ID: "1", Creators: creators("Alice")},
		"2": {ID: "2", Creators: creators("Bob", "Carol")},
	}})

	res, err := e.Compare(context.Background(), types.ComparisonRequest{
		RecordIDs:     []string{"1", "2"},
		CompareFields: []string{"authors"},
	})
	require.NoError(t, err)
	require.Len(t, res.Fields, 1)
	assert.Equal(t, 0.0, res.Fields[0].SimilarityScore)
}

func TestCompare_PreservesFieldOrder(t *testing.T) {
	e := newTestEngine(&fakeSource{records: surveyRecords()})

	fields := []string{"publication_date", "topics", "title"}
	res, err := e.Compare(context.Background(), types.ComparisonRequest{
		RecordIDs:     []string{"7654321", "1234567"},
		CompareFields: fields,
	})
	require.NoError(t, err)
	got := make([]string, len(res.Fields))
	for i, fc := range res.Fields {
		got[i] = fc.Field
	}
	assert.Equal(t, fields, got)

	// 182 days apart on a 365-day decay.
	assert.InDelta(t, 0.501, res.Fields[0].SimilarityScore, 1e-9)
	assert.Equal(t, "2023-07-02", res.Fields[0].Values["7654321"])
	// topics match case-insensitively: {deep learning, survey} vs {deep learning}.
	assert.InDelta(t, 0.5, res.Fields[1].SimilarityScore, 1e-9)
}

func TestCompare_ValidationBeforeFetch(t *testing.T) {
	tests := []struct {
		name  string
		req   types.ComparisonRequest
		field string
	}{
		{"no ids", types.ComparisonRequest{}, "record_ids"},
		{"one id", types.ComparisonRequest{RecordIDs: []string{"1234567"}}, "record_ids"},
		{"duplicate ids collapse", types.ComparisonRequest{RecordIDs: []string{"1234567", " 1234567"}}, "record_ids"},
		{"non-numeric id", types.ComparisonRequest{RecordIDs: []string{"1234567", "abc"}}, "record_ids"},
		{"empty id", types.ComparisonRequest{RecordIDs: []string{"1234567", ""}}, "record_ids"},
		{"unknown field", types.ComparisonRequest{RecordIDs: []string{"1", "2"}, CompareFields: []string{"title", "license"}}, "compare_fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{records: surveyRecords()}
			_, err := newTestEngine(src).Compare(context.Background(), tt.req)

			var ve *zenodo.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, src.fetches.Load(), "no fetch before validation passes")
		})
	}
}

func TestCompare_UnknownRecordFailsWhole(t *testing.T) {
	src := &fakeSource{records: surveyRecords()}
	res, err := newTestEngine(src).Compare(context.Background(), types.ComparisonRequest{
		RecordIDs: []string{"1234567", "999", "7654321"},
	})

	assert.Nil(t, res)
	var nf *zenodo.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "999", nf.RecordID)
}

func TestCompare_FirstFailingIDInRequestOrder(t *testing.T) {
	src := &fakeSource{
		records: surveyRecords(),
		// "111" fails late, "222" fails immediately; request order wins.
		delay: map[string]time.Duration{"111": 30 * time.Millisecond},
		errs: map[string]error{
			"111": &zenodo.NotFoundError{RecordID: "111"},
			"222": &zenodo.UpstreamError{StatusCode: 500, Message: "boom"},
		},
	}
	_, err := newTestEngine(src).Compare(context.Background(), types.ComparisonRequest{
		RecordIDs: []string{"111", "222", "1234567"},
	})

	var nf *zenodo.NotFoundError
	if errors.As(err, &nf) {
		assert.Equal(t, "111", nf.RecordID)
		return
	}
	// "111" may observe the cancellation from "222" first; then "222" is the
	// first real failure in request order.
	var up *zenodo.UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, 500, up.StatusCode)
}

func TestCompare_BoundedConcurrency(t *testing.T) {
	records := map[string]types.Record{}
	ids := []string{}
	delay := map[string]time.Duration{}
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		records[id] = types.Record{ID: id, Title: "same"}
		delay[id] = 10 * time.Millisecond
		ids = append(ids, id)
	}
	src := &fakeSource{records: records, delay: delay}
	e := NewEngine(src, types.CompareConfig{MaxConcurrentFetches: 2}, nil)

	_, err := e.Compare(context.Background(), types.ComparisonRequest{RecordIDs: ids})
	require.NoError(t, err)
	assert.Equal(t, int32(6), src.fetches.Load())
	assert.LessOrEqual(t, src.peak.Load(), int32(2))
}

func TestCompareRecords_MissingFieldsAreEmpty(t *testing.T) {
	records := []*types.Record{{ID: "1"}, {ID: "2", Title: "Only one title"}}
	res := CompareRecords([]string{"1", "2"}, records, types.ComparableFields, types.DefaultCompareConfig())

	byField := map[string]types.FieldComparison{}
	for _, fc := range res.Fields {
		byField[fc.Field] = fc
	}
	assert.Equal(t, 0.0, byField["title"].SimilarityScore)
	assert.Equal(t, "", byField["title"].Values["1"])
	assert.Equal(t, 1.0, byField["authors"].SimilarityScore)
	assert.Equal(t, []string{}, byField["topics"].Values["1"])
	assert.Equal(t, 1.0, byField["publication_date"].SimilarityScore)
	assert.Equal(t, "", byField["publication_date"].Values["2"])
}

// TestCompare_ValuesKeyedByRequestedID covers a concept record ID that Zenodo
// redirects to its latest version.
func TestCompare_ValuesKeyedByRequestedID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/records/111", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/records/1234567", http.StatusFound)
	})
	mux.HandleFunc("/records/1234567", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, zenodotest.SurveyRecordJSON)
	})
	mux.HandleFunc("/records/7654321", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, zenodotest.SurveyVariantJSON)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := zenodo.NewClient(types.ZenodoConfig{APIURL: srv.URL}, srv.Client())
	e := NewEngine(client, types.DefaultCompareConfig(), nil)

	tests := []struct {
		name  string
		ids   []string
		score float64
	}{
		{"redirected and other record", []string{"111", "7654321"}, 0.6},
		{"redirected and its target", []string{"111", "1234567"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Compare(context.Background(), types.ComparisonRequest{
				RecordIDs:     tt.ids,
				CompareFields: []string{types.FieldTitle},
			})
			require.NoError(t, err)
			require.Len(t, res.Fields, 1)
			values := res.Fields[0].Values
			assert.Len(t, values, 2)
			for _, id := range tt.ids {
				assert.Contains(t, values, id)
			}
			assert.InDelta(t, tt.score, res.Fields[0].SimilarityScore, 0.001)
		})
	}
}
