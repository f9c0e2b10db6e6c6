// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zenodo is the client for the Zenodo REST API: search, record
// retrieval, file listing and citation formatting. It keeps no state between
// calls beyond the configuration it was built with.
package zenodo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/zenodo-mcp/internal/httputil"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxErrorBody    = 4096
)

// Sort orders accepted by the records search endpoint.
var validSorts = map[string]bool{
	"bestmatch":   true,
	"mostrecent":  true,
	"-bestmatch":  true,
	"-mostrecent": true,
}

// Filter keys passed through to the records search endpoint.
var validFilters = map[string]bool{
	"type":         true,
	"subtype":      true,
	"communities":  true,
	"access_right": true,
	"file_type":    true,
	"keywords":     true,
}

// Client talks to one Zenodo instance.
type Client struct {
	HTTP    *http.Client
	cfg     types.ZenodoConfig
	baseURL string
}

// NewClient returns a client for cfg. When httpClient is nil an
// authenticated client is built from cfg.
func NewClient(cfg types.ZenodoConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httputil.NewClient(cfg.HTTPConfig, cfg.APIToken)
	}
	return &Client{
		HTTP:    httpClient,
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL(), "/"),
	}
}

// SearchRequest holds the records search parameters.
type SearchRequest struct {
	Query   string
	Filters map[string]string
	Sort    string
	Page    int
	Size    int
}

// normalize validates the request and fills defaults.
func (r SearchRequest) normalize() (SearchRequest, error) {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return r, invalid("query", "must not be empty")
	}
	if r.Sort != "" && !validSorts[r.Sort] {
		return r, invalid("sort", "unsupported sort %q (use bestmatch, mostrecent, -bestmatch or -mostrecent)", r.Sort)
	}
	for k := range r.Filters {
		if !validFilters[k] {
			return r, invalid("filters."+k, "unsupported filter %q", k)
		}
	}
	if r.Page < 0 {
		return r, invalid("page", "must be positive, got %d", r.Page)
	}
	if r.Page == 0 {
		r.Page = 1
	}
	switch {
	case r.Size <= 0:
		r.Size = defaultPageSize
	case r.Size > maxPageSize:
		r.Size = maxPageSize
	}
	return r, nil
}

// Search runs a records query and returns one page of hits.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*types.SearchPage, error) {
	req, err := req.normalize()
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"q":    {req.Query},
		"page": {strconv.Itoa(req.Page)},
		"size": {strconv.Itoa(req.Size)},
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}
	keys := make([]string, 0, len(req.Filters))
	for k := range req.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		params.Set(k, req.Filters[k])
	}

	var sr zenodoSearchResponse
	if err := c.getJSON(ctx, "/records", params, "", &sr); err != nil {
		return nil, err
	}

	page := &types.SearchPage{
		Query:   req.Query,
		Total:   sr.Hits.Total,
		Page:    req.Page,
		Size:    req.Size,
		Records: make([]types.Record, 0, len(sr.Hits.Hits)),
	}
	for _, hit := range sr.Hits.Hits {
		page.Records = append(page.Records, hit.toRecord())
	}
	return page, nil
}

// GetRecord fetches one record with its metadata and file list.
func (c *Client) GetRecord(ctx context.Context, id string) (*types.Record, error) {
	id = strings.TrimSpace(id)
	if !IsRecordID(id) {
		return nil, invalid("record_id", "%q is not a numeric Zenodo record ID", id)
	}

	var zr zenodoRecord
	if err := c.getJSON(ctx, "/records/"+id, nil, id, &zr); err != nil {
		return nil, err
	}
	rec := zr.toRecord()
	if rec.ID == "" {
		rec.ID = id
	}
	return &rec, nil
}

// ListFiles returns the files of a record in the order Zenodo lists them.
// Records whose files endpoint is unavailable fall back to the file list
// embedded in the record itself.
func (c *Client) ListFiles(ctx context.Context, id string) ([]types.File, error) {
	id = strings.TrimSpace(id)
	if !IsRecordID(id) {
		return nil, invalid("record_id", "%q is not a numeric Zenodo record ID", id)
	}

	var fr zenodoFilesResponse
	err := c.getJSON(ctx, "/records/"+id+"/files", nil, id, &fr)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		rec, recErr := c.GetRecord(ctx, id)
		if recErr != nil {
			return nil, recErr
		}
		return rec.Files, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]types.File, 0, len(fr.Entries))
	for _, f := range fr.Entries {
		files = append(files, f.toFile())
	}
	return files, nil
}

// GetCitation formats the record's citation in the given style. The style is
// checked before the record is fetched.
func (c *Client) GetCitation(ctx context.Context, id, style string) (string, error) {
	s, err := ParseStyle(style)
	if err != nil {
		return "", err
	}
	rec, err := c.GetRecord(ctx, id)
	if err != nil {
		return "", err
	}
	return FormatCitation(rec, s)
}

// EmbedURL returns the embeddable view of a record on the configured
// instance, e.g. https://zenodo.org/records/123/embed for the default API.
func (c *Client) EmbedURL(id string) string {
	site := strings.TrimSuffix(c.baseURL, "/api")
	return site + "/records/" + strings.TrimSpace(id) + "/embed"
}

// getJSON issues a GET against the API and decodes the JSON body into dst.
// A 404 becomes a NotFoundError when recordID is set.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, recordID string, dst any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.cfg.RateLimitRetries)
	if err != nil {
		return &UpstreamError{Message: "Zenodo API request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && recordID != "" {
		return &NotFoundError{RecordID: recordID}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{StatusCode: resp.StatusCode, Message: upstreamMessage(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "parsing Zenodo response", Err: err}
	}
	return nil
}

// upstreamMessage extracts Zenodo's error message, falling back to the raw
// body or the status text.
func upstreamMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return e.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
