// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"

	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// NewClient returns an http.Client that stamps every request with the
// configured User-Agent and, when token is non-empty, a bearer token.
func NewClient(cfg types.HTTPConfig, token string) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &authTransport{
			base:      http.DefaultTransport,
			token:     token,
			userAgent: cfg.UserAgent,
		},
	}
}

type authTransport struct {
	base      http.RoundTripper
	token     string
	userAgent string
}

// RoundTrip clones the request before touching headers, as the
// http.RoundTripper contract requires.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.userAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}
	if t.token != "" && r.Header.Get("Authorization") == "" {
		r.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(r)
}
