package protocol

import (
	"errors"
	"fmt"
	"time"
)

// Invocation statuses returned to MCP clients.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Kind classifies a failed invocation.
type Kind string

// Failure kinds, in pipeline order.
const (
	// Caller/schema errors. Never retried, surfaced verbatim.
	KindUnknownTool      Kind = "unknown_tool"
	KindMissingParameter Kind = "missing_parameter"
	KindTypeMismatch     Kind = "type_mismatch"
	KindInvalidEnumValue Kind = "invalid_enum_value"
	KindUnknownParameter Kind = "unknown_parameter"

	// Deployment error: a required secret is not configured.
	KindSecretNotFound Kind = "secret_not_found"

	// Upstream/network errors. A surrounding policy layer may retry
	// read-only calls; the gateway core never does.
	KindTimeout        Kind = "timeout"
	KindTransport      Kind = "transport"
	KindUpstreamStatus Kind = "upstream_status"

	// Upstream returned 2xx but the payload violates the declared shape.
	KindShapeMismatch Kind = "shape_mismatch"
)

// Error is the caller-visible failure of one tool invocation. Every field
// needed to act on the failure is carried here; credential values never are.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Tool is the tool being invoked.
	Tool string
	// Field names the offending parameter for caller/schema errors, or the
	// missing secret for secret_not_found.
	Field string
	// Expected describes the expected kind or shape when relevant.
	Expected string
	// Status is the upstream HTTP status for upstream_status failures.
	Status int
	// Message is a human-readable description.
	Message string
	// RetryAfter is an optional hint from the upstream Retry-After header.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Expected != "":
		return fmt.Sprintf("%s: %s: field %q (expected %s): %s", e.Tool, e.Kind, e.Field, e.Expected, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s: field %q: %s", e.Tool, e.Kind, e.Field, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s: status %d: %s", e.Tool, e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Tool, e.Kind, e.Message)
	}
}

// KindOf extracts the failure kind, or "" for non-gateway errors.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}

// AsError extracts the structured gateway error if present.
func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// UnknownTool reports a lookup of an unregistered tool.
func UnknownTool(tool string) *Error {
	return &Error{Kind: KindUnknownTool, Tool: tool, Message: "tool is not registered"}
}

// MissingParameter reports an absent required argument.
func MissingParameter(tool, field string) *Error {
	return &Error{Kind: KindMissingParameter, Tool: tool, Field: field, Message: "required parameter is missing"}
}

// TypeMismatch reports an argument that cannot be coerced to its declared kind.
func TypeMismatch(tool, field, expected, detail string) *Error {
	return &Error{Kind: KindTypeMismatch, Tool: tool, Field: field, Expected: expected, Message: detail}
}

// InvalidEnumValue reports a value outside the declared enum members.
func InvalidEnumValue(tool, field string, allowed []string, got string) *Error {
	return &Error{
		Kind:     KindInvalidEnumValue,
		Tool:     tool,
		Field:    field,
		Expected: fmt.Sprintf("one of %v", allowed),
		Message:  fmt.Sprintf("value %q is not a member", got),
	}
}

// UnknownParameter reports an argument key absent from the tool schema.
func UnknownParameter(tool, field string) *Error {
	return &Error{Kind: KindUnknownParameter, Tool: tool, Field: field, Message: "parameter is not declared by the tool"}
}

// SecretNotFound reports a missing named secret. Only the name is carried.
func SecretNotFound(tool, name string) *Error {
	return &Error{Kind: KindSecretNotFound, Tool: tool, Field: name, Message: "secret is not configured"}
}

// Timeout reports an upstream call that exceeded the tool's budget.
func Timeout(tool string, elapsed time.Duration) *Error {
	return &Error{Kind: KindTimeout, Tool: tool, Message: fmt.Sprintf("upstream call exceeded budget after %s", elapsed.Round(time.Millisecond))}
}

// Transport reports a network-level failure (DNS, dial, TLS, connection reset).
func Transport(tool, detail string) *Error {
	return &Error{Kind: KindTransport, Tool: tool, Message: detail}
}

// UpstreamStatus reports a non-2xx upstream response.
func UpstreamStatus(tool string, status int, message string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindUpstreamStatus, Tool: tool, Status: status, Message: message, RetryAfter: retryAfter}
}

// ShapeMismatch reports a 2xx payload that violates the declared return shape.
func ShapeMismatch(tool, expected, got string) *Error {
	return &Error{Kind: KindShapeMismatch, Tool: tool, Expected: expected, Message: fmt.Sprintf("upstream returned %s", got)}
}
