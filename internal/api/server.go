// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api serves the tool surface over plain HTTP: the comparison
// endpoint, a generic tool-call endpoint, the tool catalog, and the MCP
// streamable endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/zenodo-mcp/internal/tools"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

const maxBodyBytes = 1 << 20

// ToolCaller dispatches tool calls and lists the available tools.
type ToolCaller interface {
	CallRaw(ctx context.Context, name string, args json.RawMessage) tools.Response
	Tools() []tools.Tool
}

// Server is the HTTP front end.
type Server struct {
	tools    ToolCaller
	mcp      http.Handler
	cfg      types.ServerConfig
	version  string
	logger   *slog.Logger
	server   *http.Server
	listener net.Listener
}

// NewServer creates the HTTP server. mcpHandler may be nil, in which case
// /mcp is not mounted.
func NewServer(tc ToolCaller, mcpHandler http.Handler, cfg types.ServerConfig, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		tools:   tc,
		mcp:     mcpHandler,
		cfg:     cfg,
		version: version,
		logger:  logger,
	}
}

type toolCallRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type toolCallResponse struct {
	Result        any                `json:"result,omitempty"`
	Error         *tools.ErrorObject `json:"error,omitempty"`
	ExecutionTime float64            `json:"execution_time"`
}

type errorResponse struct {
	Error *tools.ErrorObject `json:"error"`
}

type infoResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Tools     []string `json:"tools"`
	Endpoints []string `json:"endpoints"`
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("POST /api/compare", s.withTimeout(http.HandlerFunc(s.handleCompare)))
	mux.HandleFunc("GET /mcp/tools", s.handleListTools)
	mux.Handle("POST /mcp/tools/call", s.withTimeout(http.HandlerFunc(s.handleToolCall)))
	if s.mcp != nil {
		mux.Handle("/mcp", s.mcp)
	}
	return s.logRequests(mux)
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.listener = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	s.logger.Info("http server started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	info := infoResponse{
		Name:    "zenodo-mcp",
		Version: s.version,
		Endpoints: []string{
			"POST /api/compare",
			"GET /mcp/tools",
			"POST /mcp/tools/call",
			"GET /healthz",
		},
	}
	if s.mcp != nil {
		info.Endpoints = append(info.Endpoints, "/mcp")
	}
	for _, t := range s.tools.Tools() {
		info.Tools = append(info.Tools, t.Name)
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.tools.Tools()})
}

// handleCompare accepts {record_ids, compare_fields} and answers with the
// comparison result itself.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	resp := s.tools.CallRaw(r.Context(), tools.CompareRecords, body)
	if resp.Error != nil {
		writeJSON(w, resp.Error.HTTPStatus(), errorResponse{Error: resp.Error})
		return
	}
	writeJSON(w, http.StatusOK, resp.Result)
}

func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var req toolCallRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: &tools.ErrorObject{
			Kind:    tools.KindValidation,
			Message: "request body must be {name, arguments}: " + err.Error(),
			Field:   "body",
		}})
		return
	}

	resp := s.tools.CallRaw(r.Context(), req.Name, req.Arguments)
	out := toolCallResponse{
		Result:        resp.Result,
		Error:         resp.Error,
		ExecutionTime: time.Since(start).Seconds(),
	}
	status := http.StatusOK
	if resp.Error != nil {
		status = resp.Error.HTTPStatus()
	}
	writeJSON(w, status, out)
}

// withTimeout bounds the request context by the configured request timeout.
func (s *Server) withTimeout(next http.Handler) http.Handler {
	if s.cfg.RequestTimeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(start))
	})
}
