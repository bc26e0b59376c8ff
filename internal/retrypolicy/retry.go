// Package retrypolicy wraps the dispatcher with bounded retries for
// idempotent read-only tools. The gateway core never retries, so per-call
// timeout budgets stay predictable; this layer is the one place retry
// behavior is allowed to live.
package retrypolicy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
)

// Invoker is the dispatcher surface this layer wraps.
type Invoker interface {
	Invoke(ctx context.Context, tool string, rawArgs map[string]any) (any, error)
}

// Retrying retries failed invocations of read-only tools.
type Retrying struct {
	// Next is the wrapped invoker.
	Next Invoker
	// Registry is consulted for the tool's read-only flag.
	Registry *catalog.Registry
	// MaxAttempts caps total attempts including the first. Values below 2
	// disable retries.
	MaxAttempts int
	// InitialInterval seeds the exponential backoff. Zero means 500ms.
	InitialInterval time.Duration
	// Logger records retry attempts.
	Logger *slog.Logger
}

// Invoke delegates to the wrapped invoker, retrying transient upstream
// failures with exponential backoff. A Retry-After hint from the upstream
// overrides the computed interval. Caller/schema errors, secret errors,
// shape mismatches, and 4xx statuses are permanent.
func (r *Retrying) Invoke(ctx context.Context, tool string, rawArgs map[string]any) (any, error) {
	if r.MaxAttempts < 2 || !r.readOnly(tool) {
		return r.Next.Invoke(ctx, tool, rawArgs)
	}

	attempt := 0
	operation := func() (any, error) {
		attempt++
		payload, err := r.Next.Invoke(ctx, tool, rawArgs)
		if err == nil {
			return payload, nil
		}
		if !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		hint := retryAfterHint(err)
		if r.Logger != nil {
			r.Logger.Warn("retrying tool call",
				"tool", tool,
				"attempt", attempt,
				"error_kind", string(protocol.KindOf(err)),
				"retry_after", hint,
			)
		}
		if hint > 0 {
			// Upstream told us when to come back. Joining keeps the
			// structured error reachable for the final failure report.
			return nil, errors.Join(err, &backoff.RetryAfterError{Duration: hint})
		}
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	if r.InitialInterval > 0 {
		policy.InitialInterval = r.InitialInterval
	}

	payload, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(r.MaxAttempts)),
	)
	if err != nil {
		if gwErr, ok := protocol.AsError(err); ok {
			return nil, gwErr
		}
		return nil, err
	}
	return payload, nil
}

// retryAfterHint extracts the upstream Retry-After hint, when present.
func retryAfterHint(err error) time.Duration {
	if gwErr, ok := protocol.AsError(err); ok {
		return gwErr.RetryAfter
	}
	return 0
}

func (r *Retrying) readOnly(tool string) bool {
	if r.Registry == nil {
		return false
	}
	def, err := r.Registry.Lookup(tool)
	return err == nil && def.ReadOnly
}

func retryable(err error) bool {
	gwErr, ok := protocol.AsError(err)
	if !ok {
		return false
	}
	switch gwErr.Kind {
	case protocol.KindTimeout, protocol.KindTransport:
		return true
	case protocol.KindUpstreamStatus:
		return gwErr.Status >= 500
	default:
		return false
	}
}
