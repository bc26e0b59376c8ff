// Package upstream performs the outbound HTTP call for one validated
// invocation. It owns the per-tool timeout and the return-shape check and
// never retries; retry policy lives outside the gateway core.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
	"github.com/camino-ai/camino-mcp-gateway/internal/params"
	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
	"github.com/camino-ai/camino-mcp-gateway/internal/secrets"
	"github.com/camino-ai/camino-mcp-gateway/internal/security"
)

// maxResponseBytes bounds how much of an upstream response is read.
const maxResponseBytes = 1 << 20

// Client issues requests against the upstream API.
type Client struct {
	// BaseURL is the upstream base URL without a trailing slash.
	BaseURL string
	// CredentialHeader names the header carrying the per-call credential.
	CredentialHeader string
	// DefaultTimeout applies to tools without an explicit timeout.
	DefaultTimeout time.Duration
	// HTTPClient overrides the transport. Nil means http.DefaultClient
	// semantics; the client must not carry its own global timeout because
	// budgets are per tool.
	HTTPClient *http.Client
	// Limiter optionally throttles outbound calls.
	Limiter *rate.Limiter
	// Logger records call timing. Never logs credentials or raw arguments.
	Logger *slog.Logger
}

// Call issues the upstream request for one resolved invocation and returns
// the decoded payload after checking it against the tool's return shape.
func (c *Client) Call(ctx context.Context, def *catalog.ToolDefinition, req *params.Resolved, creds map[string]secrets.Credential) (any, error) {
	timeout := def.Timeout
	if timeout <= 0 {
		timeout = c.DefaultTimeout
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()

	if c.Limiter != nil {
		if err := c.Limiter.Wait(callCtx); err != nil {
			return nil, c.mapContextErr(callCtx, def.Name, started, err, creds)
		}
	}

	request, err := c.buildRequest(callCtx, def, req, creds)
	if err != nil {
		return nil, err
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	resp, err := client.Do(request)
	if err != nil {
		return nil, c.mapContextErr(callCtx, def.Name, started, err, creds)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.mapContextErr(callCtx, def.Name, started, err, creds)
	}

	elapsed := time.Since(started)
	if c.Logger != nil {
		c.Logger.Debug("upstream call",
			"tool", def.Name,
			"method", def.Method,
			"path", def.Path,
			"status", resp.StatusCode,
			"elapsed", elapsed,
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := security.Scrub(strings.TrimSpace(string(data)), creds)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, protocol.UpstreamStatus(def.Name, resp.StatusCode, message, retryAfter(resp))
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, protocol.ShapeMismatch(def.Name, string(def.Returns), "an undecodable payload")
	}
	if err := checkShape(def, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// mapContextErr distinguishes budget exhaustion from transport failures. A
// canceled invocation is reported as transport so a stale partial outcome is
// never returned after the host gives up.
func (c *Client) mapContextErr(ctx context.Context, tool string, started time.Time, err error, creds map[string]secrets.Credential) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return protocol.Timeout(tool, time.Since(started))
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return protocol.Transport(tool, "invocation canceled")
	}
	return protocol.Transport(tool, security.Scrub(err.Error(), creds))
}

func checkShape(def *catalog.ToolDefinition, payload any) error {
	switch def.Returns {
	case catalog.ShapeObject:
		if _, ok := payload.(map[string]any); !ok {
			return protocol.ShapeMismatch(def.Name, "object", describePayload(payload))
		}
	case catalog.ShapeArray:
		items, ok := payload.([]any)
		if !ok {
			return protocol.ShapeMismatch(def.Name, "array of objects", describePayload(payload))
		}
		for _, item := range items {
			if _, ok := item.(map[string]any); !ok {
				return protocol.ShapeMismatch(def.Name, "array of objects", describePayload(item))
			}
		}
	}
	return nil
}

func describePayload(payload any) string {
	switch payload.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", payload)
	}
}

func retryAfter(resp *http.Response) time.Duration {
	raw := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if raw == "" {
		return 0
	}
	var seconds int
	if _, err := fmt.Sscanf(raw, "%d", &seconds); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}
	return 0
}
