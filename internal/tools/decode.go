// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/zenodo-mcp/internal/zenodo"
)

// decodeArgs decodes a JSON object into dst, rejecting unknown argument
// names and values of the wrong JSON type. Empty or null input decodes as
// an empty object.
func decodeArgs(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	if raw[0] != '{' {
		return &zenodo.ValidationError{Field: "arguments", Message: "must be a JSON object"}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil {
		return nil
	}

	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "arguments"
		}
		return &zenodo.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("expected %s, got %s", jsonTypeName(typeErr.Type.Kind().String()), typeErr.Value),
		}
	case errors.As(err, &syntaxErr):
		return &zenodo.ValidationError{Field: "arguments", Message: "malformed JSON: " + syntaxErr.Error()}
	}
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		name = strings.Trim(name, `"`)
		return &zenodo.ValidationError{Field: name, Message: "unknown argument"}
	}
	return &zenodo.ValidationError{Field: "arguments", Message: err.Error()}
}

func jsonTypeName(kind string) string {
	switch kind {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "array"
	case "map", "struct":
		return "object"
	case "float32", "float64":
		return "number"
	case "ptr":
		return "value"
	default:
		return "integer"
	}
}

// required rejects an empty string argument.
func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &zenodo.ValidationError{Field: field, Message: "is required"}
	}
	return nil
}
