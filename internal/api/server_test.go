package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pdiddy/zenodo-mcp/internal/compare"
	"github.com/pdiddy/zenodo-mcp/internal/logging"
	"github.com/pdiddy/zenodo-mcp/internal/tools"
	"github.com/pdiddy/zenodo-mcp/internal/zenodotest"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

type MockToolCaller struct {
	mock.Mock
}

func (m *MockToolCaller) CallRaw(ctx context.Context, name string, args json.RawMessage) tools.Response {
	return m.Called(ctx, name, args).Get(0).(tools.Response)
}

func (m *MockToolCaller) Tools() []tools.Tool {
	return m.Called().Get(0).([]tools.Tool)
}

type ServerSuite struct {
	suite.Suite
	caller *MockToolCaller
	srv    *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.caller = new(MockToolCaller)
	s.srv = NewServer(s.caller, nil, types.ServerConfig{RequestTimeout: time.Second}, "1.2.3", logging.Discard())
}

func (s *ServerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t require.TestingT, rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *ServerSuite) TestInfo() {
	s.caller.On("Tools").Return([]tools.Tool{{Name: "search_records"}, {Name: "compare_records"}})

	rec := s.do(http.MethodGet, "/", "")
	require.Equal(s.T(), http.StatusOK, rec.Code)
	out := decode(s.T(), rec)
	require.Equal(s.T(), "1.2.3", out["version"])
	require.Equal(s.T(), []any{"search_records", "compare_records"}, out["tools"])
}

func (s *ServerSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", "")
	require.Equal(s.T(), http.StatusOK, rec.Code)
	require.JSONEq(s.T(), `{"status":"ok"}`, rec.Body.String())
}

func (s *ServerSuite) TestUnknownPath() {
	rec := s.do(http.MethodGet, "/nope", "")
	require.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *ServerSuite) TestCompareWrongMethod() {
	rec := s.do(http.MethodGet, "/api/compare", "")
	require.Equal(s.T(), http.StatusMethodNotAllowed, rec.Code)
}

func (s *ServerSuite) TestCompareForwardsBody() {
	body := `{"record_ids":["1","2"],"compare_fields":["title"]}`
	result := &types.ComparisonResult{
		Fields: []types.FieldComparison{{
			Field:           "title",
			Values:          map[string]any{"1": "a", "2": "a"},
			SimilarityScore: 1,
		}},
		OverallSimilarity: 1,
	}
	s.caller.On("CallRaw", mock.Anything, tools.CompareRecords, json.RawMessage(body)).
		Return(tools.Response{Result: result})

	rec := s.do(http.MethodPost, "/api/compare", body)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	require.JSONEq(s.T(), `{
		"comparison_results": [{"field": "title", "values": {"1": "a", "2": "a"}, "similarity_score": 1}],
		"overall_similarity": 1
	}`, rec.Body.String())
	s.caller.AssertExpectations(s.T())
}

func (s *ServerSuite) TestCompareErrorStatus() {
	tests := []struct {
		kind   string
		status int
	}{
		{tools.KindValidation, http.StatusBadRequest},
		{tools.KindNotFound, http.StatusNotFound},
		{tools.KindUpstream, http.StatusBadGateway},
		{tools.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		s.Run(tt.kind, func() {
			s.SetupTest()
			s.caller.On("CallRaw", mock.Anything, tools.CompareRecords, mock.Anything).
				Return(tools.Response{Error: &tools.ErrorObject{Kind: tt.kind, Message: "x"}})

			rec := s.do(http.MethodPost, "/api/compare", `{}`)
			require.Equal(s.T(), tt.status, rec.Code)
			errObj := decode(s.T(), rec)["error"].(map[string]any)
			require.Equal(s.T(), tt.kind, errObj["kind"])
		})
	}
}

func (s *ServerSuite) TestToolCall() {
	s.caller.On("CallRaw", mock.Anything, "get_citation", json.RawMessage(`{"record_id":"1"}`)).
		Return(tools.Response{Result: map[string]string{"citation": "@misc{...}"}})

	rec := s.do(http.MethodPost, "/mcp/tools/call", `{"name":"get_citation","arguments":{"record_id":"1"}}`)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	out := decode(s.T(), rec)
	require.Equal(s.T(), map[string]any{"citation": "@misc{...}"}, out["result"])
	require.Contains(s.T(), out, "execution_time")
	require.NotContains(s.T(), out, "error")
}

func (s *ServerSuite) TestToolCallBadBody() {
	rec := s.do(http.MethodPost, "/mcp/tools/call", `{"tool":"x"}`)
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
	errObj := decode(s.T(), rec)["error"].(map[string]any)
	require.Equal(s.T(), "validation_error", errObj["kind"])
	require.Equal(s.T(), "body", errObj["field"])
	s.caller.AssertNotCalled(s.T(), "CallRaw", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServerSuite) TestBodyTooLarge() {
	big := `{"record_ids":["` + strings.Repeat("1", maxBodyBytes) + `"]}`
	rec := s.do(http.MethodPost, "/api/compare", big)
	require.Equal(s.T(), http.StatusRequestEntityTooLarge, rec.Code)
}

func (s *ServerSuite) TestStartStop() {
	s.caller.On("Tools").Return([]tools.Tool{})
	require.NoError(s.T(), s.srv.Start("127.0.0.1:0"))

	resp, err := http.Get("http://" + s.srv.Addr() + "/healthz")
	require.NoError(s.T(), err)
	resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(s.T(), s.srv.Stop(ctx))
}

func TestStopWithoutStart(t *testing.T) {
	srv := NewServer(new(MockToolCaller), nil, types.ServerConfig{}, "", nil)
	require.NoError(t, srv.Stop(context.Background()))
	require.Empty(t, srv.Addr())
}

// TestCompareEndToEnd drives the real toolkit against a fake Zenodo.
func TestCompareEndToEnd(t *testing.T) {
	z := zenodotest.NewServer(t, zenodotest.DefaultRoutes())
	client := z.ZenodoClient()
	tk := tools.New(client, compare.NewEngine(client, types.DefaultCompareConfig(), nil), nil)
	ts := httptest.NewServer(NewServer(tk, nil, types.ServerConfig{}, "test", nil).Handler())
	t.Cleanup(ts.Close)

	post := func(body string) (*http.Response, map[string]any) {
		resp, err := http.Post(ts.URL+"/api/compare", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp, out
	}

	resp, out := post(`{"record_ids": ["1234567", "7654321"], "compare_fields": ["title", "authors"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := out["comparison_results"].([]any)
	require.Len(t, results, 2)
	authors := results[1].(map[string]any)
	require.Equal(t, "authors", authors["field"])
	require.Equal(t, []any{"Doe, Jane", "Smith, John"}, authors["values"].(map[string]any)["1234567"])

	resp, out = post(`{"record_ids": ["1234567", "888"]}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	errObj := out["error"].(map[string]any)
	require.Equal(t, "not_found", errObj["kind"])
	require.Equal(t, "888", errObj["record_id"])
	require.NotContains(t, out, "comparison_results")

	calls := z.Calls()
	resp, _ = post(`{"record_ids": ["1234567"]}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, calls, z.Calls())
}
