// Package secrets resolves named credentials per invocation. Values never
// appear in logs, error messages, or results.
package secrets

import (
	"context"
	"os"

	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
)

// Credential is an opaque secret value. Its formatting methods hide the
// value so accidental logging prints a placeholder instead.
type Credential struct {
	value string
}

// NewCredential wraps a secret value.
func NewCredential(value string) Credential {
	return Credential{value: value}
}

// Reveal returns the underlying value. Only the outbound request builder
// should call this.
func (c Credential) Reveal() string {
	return c.value
}

// String hides the value from %v, %s and friends.
func (c Credential) String() string {
	return "***"
}

// GoString hides the value from %#v.
func (c Credential) GoString() string {
	return "secrets.Credential{***}"
}

// Provider looks up credentials by name.
type Provider interface {
	// Resolve returns every named credential or fails on the first absent
	// name with a secret_not_found error carrying the name only.
	Resolve(ctx context.Context, names []string) (map[string]Credential, error)
}

// EnvProvider reads credentials from the process environment on every
// resolve, so rotated values are picked up without restarts.
type EnvProvider struct {
	// Prefix is prepended to every lookup name.
	Prefix string
}

// Resolve implements Provider.
func (p EnvProvider) Resolve(_ context.Context, names []string) (map[string]Credential, error) {
	resolved := make(map[string]Credential, len(names))
	for _, name := range names {
		value, ok := os.LookupEnv(p.Prefix + name)
		if !ok || value == "" {
			return nil, protocol.SecretNotFound("", name)
		}
		resolved[name] = NewCredential(value)
	}
	return resolved, nil
}

// Static serves credentials from a fixed map. Test and embedding helper.
type Static map[string]string

// Resolve implements Provider.
func (s Static) Resolve(_ context.Context, names []string) (map[string]Credential, error) {
	resolved := make(map[string]Credential, len(names))
	for _, name := range names {
		value, ok := s[name]
		if !ok {
			return nil, protocol.SecretNotFound("", name)
		}
		resolved[name] = NewCredential(value)
	}
	return resolved, nil
}
