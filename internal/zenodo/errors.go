// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zenodo

import "fmt"

// ValidationError reports malformed or missing caller input. It is raised
// before any network call and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports a record ID that Zenodo does not know.
type NotFoundError struct {
	RecordID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %s not found", e.RecordID)
}

// UpstreamError reports a failed Zenodo call: a non-2xx status, a transport
// fault (StatusCode 0), or an unparsable body.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.StatusCode == 0 {
		return "zenodo upstream error: " + msg
	}
	return fmt.Sprintf("zenodo upstream error (HTTP %d): %s", e.StatusCode, msg)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
