package protocol

// Envelope is the fixed JSON result returned to MCP clients.
type Envelope struct {
	// Status indicates the invocation status.
	Status string `json:"status"`
	// Result is the upstream payload on success.
	Result any `json:"result,omitempty"`
	// Error describes the failure on error.
	Error *ErrorDescriptor `json:"error,omitempty"`
	// InvocationID links related log and audit records.
	InvocationID string `json:"invocation_id"`
}

// ErrorDescriptor is the wire form of Error.
type ErrorDescriptor struct {
	// Kind classifies the failure.
	Kind Kind `json:"kind"`
	// Field names the offending parameter or missing secret.
	Field string `json:"field,omitempty"`
	// Status is the upstream HTTP status when applicable.
	Status int `json:"status,omitempty"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// RetryAfterMS hints how long to wait before retrying, when known.
	RetryAfterMS int64 `json:"retry_after_ms,omitempty"`
}

// Describe converts an error into its wire form. Non-gateway errors are
// reported as transport failures so the envelope shape stays fixed.
func Describe(err error) *ErrorDescriptor {
	gwErr, ok := AsError(err)
	if !ok {
		return &ErrorDescriptor{Kind: KindTransport, Message: err.Error()}
	}
	return &ErrorDescriptor{
		Kind:         gwErr.Kind,
		Field:        gwErr.Field,
		Status:       gwErr.Status,
		Message:      gwErr.Error(),
		RetryAfterMS: gwErr.RetryAfter.Milliseconds(),
	}
}
