// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zenodotest serves canned Zenodo API responses for tests.
package zenodotest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/zenodo-mcp/internal/zenodo"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// SurveyRecordJSON is record 1234567, a journal article with a PDF.
const SurveyRecordJSON = `{
  "id": 1234567,
  "doi": "10.5281/zenodo.1234567",
  "metadata": {
    "title": "Deep Learning Survey",
    "description": "<p>Deep learning methods survey. Learning representations with deep networks.</p>",
    "publication_date": "2021-03-15",
    "creators": [{"name": "Doe, Jane"}, {"name": "Smith, John"}],
    "keywords": ["deep learning", "survey"],
    "resource_type": {"type": "publication", "subtype": "article"},
    "journal": {"title": "Journal of Surveys"}
  },
  "files": [{"key": "paper.pdf", "size": 2048, "checksum": "md5:abc"}]
}`

// SurveyVariantJSON is record 7654321, a dataset sharing one author with
// SurveyRecordJSON.
const SurveyVariantJSON = `{
  "id": 7654321,
  "metadata": {
    "title": "A Survey of Deep Learning",
    "publication_date": "2021-03-15",
    "creators": [{"name": "Doe, Jane"}, {"name": "Roe, Richard"}],
    "keywords": ["deep learning"],
    "resource_type": {"type": "dataset"}
  },
  "files": [{"key": "scores.csv", "size": 100, "checksum": "md5:111"}]
}`

// FilesJSON is the files listing of record 1234567.
const FilesJSON = `{
  "entries": [
    {"key": "paper.pdf", "size": 2048, "checksum": "md5:abc"},
    {"key": "supplement.zip", "size": 512, "checksum": "md5:def"}
  ]
}`

// SearchJSON is a search page holding both fixture records.
const SearchJSON = `{
  "hits": {
    "total": 2,
    "hits": [
      {"id": 1234567, "metadata": {"title": "Deep Learning Survey", "creators": [{"name": "Doe, Jane"}, {"name": "Smith, John"}], "keywords": ["deep learning", "survey"]}},
      {"id": 7654321, "metadata": {"title": "A Survey of Deep Learning", "creators": [{"name": "Doe, Jane"}, {"name": "Roe, Richard"}], "keywords": ["deep learning"]}}
    ]
  }
}`

// DefaultRoutes maps API paths to the fixtures above.
func DefaultRoutes() map[string]string {
	return map[string]string{
		"/records":               SearchJSON,
		"/records/1234567":       SurveyRecordJSON,
		"/records/1234567/files": FilesJSON,
		"/records/7654321":       SurveyVariantJSON,
		"/records/7654321/files": `{"entries": []}`,
	}
}

// Server is a fake Zenodo API.
type Server struct {
	*httptest.Server
	calls atomic.Int32
}

// NewServer serves routes keyed by URL path. Unknown paths answer 404 and
// the path "/records/500" answers 500.
func NewServer(t testing.TB, routes map[string]string) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if r.URL.Path == "/records/500" {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"status": 500, "message": "internal error"}`)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"status": 404, "message": "PID does not exist."}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

// Calls returns how many requests the server has received.
func (s *Server) Calls() int { return int(s.calls.Load()) }

// ZenodoClient returns a Zenodo client pointed at the server.
func (s *Server) ZenodoClient() *zenodo.Client {
	cfg := types.ZenodoConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "zenodotest/0.1"},
		APIURL:     s.URL,
	}
	return zenodo.NewClient(cfg, s.Server.Client())
}
