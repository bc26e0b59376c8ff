// Package gateway orchestrates one tool invocation: lookup, validation,
// credential resolution, and the upstream call, strictly in that order. Any
// stage failure short-circuits the rest and surfaces its own error kind.
package gateway

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/camino-ai/camino-mcp-gateway/internal/audit"
	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
	"github.com/camino-ai/camino-mcp-gateway/internal/params"
	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
	"github.com/camino-ai/camino-mcp-gateway/internal/secrets"
	"github.com/camino-ai/camino-mcp-gateway/internal/security"
)

// Caller abstracts the upstream client for testing.
type Caller interface {
	Call(ctx context.Context, def *catalog.ToolDefinition, req *params.Resolved, creds map[string]secrets.Credential) (any, error)
}

// Dispatcher composes the registry, validator, credential provider and
// upstream client. It holds no per-invocation state; concurrent invocations
// share only the sealed registry and the credential provider.
type Dispatcher struct {
	// Registry is the sealed tool catalog.
	Registry *catalog.Registry
	// Secrets resolves per-call credentials.
	Secrets secrets.Provider
	// Client performs the upstream call.
	Client Caller
	// Logger records invocation lifecycle with redacted arguments.
	Logger *slog.Logger
	// Audit records invocation events.
	Audit audit.Logger
}

// Invoke runs one tool invocation and returns the upstream payload or a
// structured gateway error. The error kind of the failing stage is never
// downgraded to a generic one.
func (d *Dispatcher) Invoke(ctx context.Context, tool string, rawArgs map[string]any) (any, error) {
	invocationID, ok := InvocationIDFrom(ctx)
	if !ok {
		invocationID = uuid.NewString()
	}

	if d.Logger != nil {
		d.Logger.Info("tool call",
			"tool", tool,
			"invocation_id", invocationID,
			"args", security.RedactArguments(rawArgs),
		)
	}
	if d.Audit != nil {
		d.Audit.Record(ctx, audit.Event{Type: audit.TypeInvoke, Tool: tool, InvocationID: invocationID})
	}

	payload, err := d.invoke(ctx, tool, rawArgs)
	if err != nil {
		kind := protocol.KindOf(err)
		if d.Logger != nil {
			logCall := d.Logger.Warn
			if kind == protocol.KindSecretNotFound {
				// Deployment problem, not a caller mistake. Alert operators.
				logCall = d.Logger.Error
			}
			logCall("tool call failed",
				"tool", tool,
				"invocation_id", invocationID,
				"error_kind", string(kind),
				"error", err.Error(),
			)
		}
		if d.Audit != nil {
			d.Audit.Record(ctx, audit.Event{
				Type:         audit.TypeInvokeError,
				Tool:         tool,
				InvocationID: invocationID,
				ErrorKind:    kind,
				Reason:       err.Error(),
			})
		}
		return nil, err
	}

	if d.Logger != nil {
		d.Logger.Info("tool call ok", "tool", tool, "invocation_id", invocationID)
	}
	if d.Audit != nil {
		d.Audit.Record(ctx, audit.Event{Type: audit.TypeInvokeOK, Tool: tool, InvocationID: invocationID})
	}
	return payload, nil
}

func (d *Dispatcher) invoke(ctx context.Context, tool string, rawArgs map[string]any) (any, error) {
	def, err := d.Registry.Lookup(tool)
	if err != nil {
		return nil, err
	}

	resolved, err := params.Validate(def, rawArgs)
	if err != nil {
		return nil, err
	}

	// Credentials only after validation, so a malformed request never
	// triggers a needless secret lookup.
	creds, err := d.Secrets.Resolve(ctx, def.Secrets)
	if err != nil {
		if gwErr, ok := protocol.AsError(err); ok && gwErr.Tool == "" {
			return nil, protocol.SecretNotFound(def.Name, gwErr.Field)
		}
		return nil, err
	}

	return d.Client.Call(ctx, def, resolved, creds)
}
