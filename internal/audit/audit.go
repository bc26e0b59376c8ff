package audit

import (
	"context"
	"log/slog"

	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
)

// Event types recorded per invocation.
const (
	TypeInvoke      = "invoke"
	TypeInvokeOK    = "invoke_ok"
	TypeInvokeError = "invoke_error"
)

// Event represents an audit entry for one tool invocation.
type Event struct {
	// Type describes the event kind.
	Type string
	// Tool is the tool name.
	Tool string
	// InvocationID links related events.
	InvocationID string
	// ErrorKind classifies the failure for invoke_error events.
	ErrorKind protocol.Kind
	// Reason provides additional context. Never contains credential values.
	Reason string
}

// Logger records audit events.
type Logger interface {
	// Record stores an audit event.
	Record(ctx context.Context, event Event)
}

// StdLogger writes audit events to slog.
type StdLogger struct {
	logger *slog.Logger
}

// New returns a StdLogger.
func New(logger *slog.Logger) *StdLogger {
	return &StdLogger{logger: logger}
}

// Record logs an audit event.
func (l *StdLogger) Record(_ context.Context, event Event) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info("audit",
		"type", event.Type,
		"tool", event.Tool,
		"invocation_id", event.InvocationID,
		"error_kind", string(event.ErrorKind),
		"reason", event.Reason,
	)
}
