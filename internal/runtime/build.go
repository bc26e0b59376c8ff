// Package runtime assembles the MCP server from the tool catalog and the
// dispatcher.
package runtime

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
	"github.com/camino-ai/camino-mcp-gateway/internal/gateway"
	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
	"github.com/camino-ai/camino-mcp-gateway/internal/retrypolicy"
)

// Builder constructs an MCP server exposing every catalog tool.
type Builder struct {
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Registry is the sealed tool catalog.
	Registry *catalog.Registry
	// Invoker runs invocations (the dispatcher, optionally wrapped by the
	// retry policy layer).
	Invoker retrypolicy.Invoker
}

// Build creates the MCP server and registers every tool with its input
// schema, output shape, and annotations so the host can enumerate the
// catalog during capability negotiation.
func (b Builder) Build(name, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, nil)

	for _, def := range b.Registry.List() {
		b.addTool(server, def)
	}

	return server
}

func (b Builder) addTool(server *mcp.Server, def *catalog.ToolDefinition) {
	destructive := !def.ReadOnly
	openWorld := true
	mcpTool := &mcp.Tool{
		Name:        def.Name,
		Title:       def.Title,
		Description: def.Description,
		InputSchema: catalog.InputSchema(def),
		Annotations: &mcp.ToolAnnotations{
			Title:           def.Title,
			ReadOnlyHint:    def.ReadOnly,
			DestructiveHint: &destructive,
			IdempotentHint:  def.ReadOnly,
			OpenWorldHint:   &openWorld,
		},
	}

	if b.Logger != nil {
		b.Logger.Debug("tool registered",
			"tool", def.Name,
			"read_only", def.ReadOnly,
			"returns", string(def.Returns),
		)
	}

	toolName := def.Name
	mcp.AddTool(server, mcpTool, func(ctx context.Context, _ *mcp.CallToolRequest, input map[string]any) (*mcp.CallToolResult, protocol.Envelope, error) {
		invocationID := uuid.NewString()
		ctx = gateway.WithInvocationID(ctx, invocationID)
		payload, err := b.Invoker.Invoke(ctx, toolName, input)
		return nil, Envelope(invocationID, payload, err), nil
	})
}

// Envelope converts an invocation outcome into the fixed wire envelope.
func Envelope(invocationID string, payload any, err error) protocol.Envelope {
	if err != nil {
		return protocol.Envelope{
			Status:       protocol.StatusError,
			Error:        protocol.Describe(err),
			InvocationID: invocationID,
		}
	}
	return protocol.Envelope{
		Status:       protocol.StatusSuccess,
		Result:       payload,
		InvocationID: invocationID,
	}
}
