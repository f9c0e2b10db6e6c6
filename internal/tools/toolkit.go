// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools exposes the Zenodo operations as named tools that take a
// mapping of named arguments. Every call yields a Response: a result or a
// structured error object, never a panic or a bare Go error.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/pdiddy/zenodo-mcp/internal/zenodo"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// Error kinds carried by ErrorObject.Kind.
const (
	KindValidation = "validation_error"
	KindNotFound   = "not_found"
	KindUpstream   = "upstream_error"
	KindInternal   = "internal_error"
)

// Zenodo is the subset of the Zenodo client the tools call.
type Zenodo interface {
	Search(ctx context.Context, req zenodo.SearchRequest) (*types.SearchPage, error)
	GetRecord(ctx context.Context, id string) (*types.Record, error)
	ListFiles(ctx context.Context, id string) ([]types.File, error)
	GetCitation(ctx context.Context, id, style string) (string, error)
	EmbedURL(id string) string
}

// Comparer compares records and ranks related ones.
type Comparer interface {
	Compare(ctx context.Context, req types.ComparisonRequest) (*types.ComparisonResult, error)
	Related(ctx context.Context, id string, limit int, threshold float64) ([]types.RelatedRecord, error)
}

// Tool is one named operation with its input schema.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`

	invoke func(ctx context.Context, args json.RawMessage) (any, error)
}

// ErrorObject is the machine-readable failure returned to callers.
type ErrorObject struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	RecordID string `json:"record_id,omitempty"`
	Status   int    `json:"status,omitempty"`
}

func (e *ErrorObject) Error() string {
	return e.Kind + ": " + e.Message
}

// HTTPStatus maps the error kind to the status code the HTTP API answers with.
func (e *ErrorObject) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Response is the uniform outcome of a tool call. Exactly one of Result and
// Error is set.
type Response struct {
	Result any          `json:"result,omitempty"`
	Error  *ErrorObject `json:"error,omitempty"`
}

// Toolkit dispatches tool calls by name.
type Toolkit struct {
	zenodo   Zenodo
	comparer Comparer
	logger   *slog.Logger

	tools []Tool
	index map[string]int
}

// New builds the toolkit over a Zenodo client and a comparison engine.
func New(z Zenodo, c Comparer, logger *slog.Logger) *Toolkit {
	if logger == nil {
		logger = slog.Default()
	}
	tk := &Toolkit{zenodo: z, comparer: c, logger: logger}
	tk.tools = tk.definitions()
	tk.index = make(map[string]int, len(tk.tools))
	for i, t := range tk.tools {
		tk.index[t.Name] = i
	}
	return tk
}

// Tools returns the tool definitions in registration order.
func (tk *Toolkit) Tools() []Tool {
	out := make([]Tool, len(tk.tools))
	copy(out, tk.tools)
	return out
}

// Lookup returns the named tool.
func (tk *Toolkit) Lookup(name string) (Tool, bool) {
	i, ok := tk.index[name]
	if !ok {
		return Tool{}, false
	}
	return tk.tools[i], true
}

// Call invokes a tool with arguments given as a map.
func (tk *Toolkit) Call(ctx context.Context, name string, args map[string]any) Response {
	if args == nil {
		return tk.CallRaw(ctx, name, nil)
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return Response{Error: &ErrorObject{
			Kind:    KindValidation,
			Message: fmt.Sprintf("arguments are not JSON-encodable: %v", err),
			Field:   "arguments",
		}}
	}
	return tk.CallRaw(ctx, name, raw)
}

// CallRaw invokes a tool with JSON-encoded arguments.
func (tk *Toolkit) CallRaw(ctx context.Context, name string, args json.RawMessage) (resp Response) {
	tool, ok := tk.Lookup(name)
	if !ok {
		return Response{Error: &ErrorObject{
			Kind:    KindValidation,
			Message: fmt.Sprintf("unknown tool %q", name),
			Field:   "name",
		}}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			tk.logger.Error("tool panicked", "tool", name, "panic", r)
			resp = Response{Error: &ErrorObject{Kind: KindInternal, Message: fmt.Sprintf("tool %s failed", name)}}
		}
	}()

	result, err := tool.invoke(ctx, args)
	if err != nil {
		obj := Classify(err)
		level := slog.LevelInfo
		if obj.Kind == KindUpstream || obj.Kind == KindInternal {
			level = slog.LevelWarn
		}
		tk.logger.Log(ctx, level, "tool call failed", "tool", name, "kind", obj.Kind, "error", err, "elapsed", time.Since(start))
		return Response{Error: obj}
	}
	tk.logger.Debug("tool call", "tool", name, "elapsed", time.Since(start))
	return Response{Result: result}
}

// Classify converts an error into the structured error object.
func Classify(err error) *ErrorObject {
	var (
		obj *ErrorObject
		ve  *zenodo.ValidationError
		nf  *zenodo.NotFoundError
		ue  *zenodo.UpstreamError
	)
	switch {
	case errors.As(err, &obj):
		return obj
	case errors.As(err, &ve):
		return &ErrorObject{Kind: KindValidation, Message: ve.Message, Field: ve.Field}
	case errors.As(err, &nf):
		return &ErrorObject{Kind: KindNotFound, Message: nf.Error(), RecordID: nf.RecordID}
	case errors.As(err, &ue):
		return &ErrorObject{Kind: KindUpstream, Message: ue.Error(), Status: ue.StatusCode}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &ErrorObject{Kind: KindUpstream, Message: err.Error()}
	default:
		return &ErrorObject{Kind: KindInternal, Message: err.Error()}
	}
}

// define builds a Tool whose arguments decode strictly into In.
func define[In any](name, description string, run func(context.Context, In) (any, error)) Tool {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("tools: input schema for %s: %v", name, err))
	}
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
		invoke: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in In
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return run(ctx, in)
		},
	}
}
