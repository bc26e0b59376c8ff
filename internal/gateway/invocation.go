package gateway

import "context"

type invocationIDKey struct{}

// WithInvocationID attaches an invocation ID to the context so every log,
// audit record, and the response envelope of one call share the same ID.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey{}, id)
}

// InvocationIDFrom returns the invocation ID attached to the context.
func InvocationIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(invocationIDKey{}).(string)
	return id, ok && id != ""
}
