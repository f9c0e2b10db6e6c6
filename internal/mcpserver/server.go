// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver publishes the Zenodo toolkit over the Model Context
// Protocol. Tool failures are reported as tool results with IsError set,
// never as protocol errors.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pdiddy/zenodo-mcp/internal/logging"
	"github.com/pdiddy/zenodo-mcp/internal/tools"
)

const implementationName = "zenodo-mcp"

// Server wraps the MCP server with one handler per toolkit tool.
type Server struct {
	toolkit   *tools.Toolkit
	mcpServer *mcp.Server
	logger    *slog.Logger
}

// New creates an MCP server exposing every tool of tk.
func New(tk *tools.Toolkit, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{toolkit: tk, logger: logger}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    implementationName,
		Version: version,
	}, &mcp.ServerOptions{Logger: logger})

	for _, t := range tk.Tools() {
		s.mcpServer.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}, s.handler(t.Name))
	}
	return s
}

// Run serves the MCP protocol on transport until ctx is done or the peer
// disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// HTTPHandler returns the streamable HTTP transport for this server.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// MCPServer returns the underlying MCP server for testing.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := s.toolkit.CallRaw(ctx, name, req.Params.Arguments)
		if resp.Error != nil {
			return errorResult(resp.Error), nil
		}
		return s.result(name, resp.Result), nil
	}
}

func (s *Server) result(name string, v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encoding tool result", "tool", name, "error", err)
		return errorResult(&tools.ErrorObject{Kind: tools.KindInternal, Message: "encoding result: " + err.Error()})
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
		StructuredContent: json.RawMessage(data),
	}
}

func errorResult(e *tools.ErrorObject) *mcp.CallToolResult {
	data, err := json.Marshal(e)
	if err != nil {
		data = []byte(`{"kind":"internal_error","message":"unencodable error"}`)
	}
	return &mcp.CallToolResult{
		IsError:           true,
		Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
		StructuredContent: json.RawMessage(data),
	}
}
