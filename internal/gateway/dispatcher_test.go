package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
	"github.com/camino-ai/camino-mcp-gateway/internal/params"
	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
	"github.com/camino-ai/camino-mcp-gateway/internal/secrets"
	"github.com/camino-ai/camino-mcp-gateway/internal/upstream"
)

type fakeCaller struct {
	mu      sync.Mutex
	calls   int
	lastDef *catalog.ToolDefinition
	lastReq *params.Resolved
	payload any
	err     error
}

func (f *fakeCaller) Call(_ context.Context, def *catalog.ToolDefinition, req *params.Resolved, _ map[string]secrets.Credential) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastDef = def
	f.lastReq = req
	return f.payload, f.err
}

type recordingProvider struct {
	mu       sync.Mutex
	resolves int
	next     secrets.Provider
}

func (r *recordingProvider) Resolve(ctx context.Context, names []string) (map[string]secrets.Credential, error) {
	r.mu.Lock()
	r.resolves++
	r.mu.Unlock()
	return r.next.Resolve(ctx, names)
}

func sealedRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	registry := catalog.NewRegistry()
	for _, def := range catalog.BuiltinTools() {
		require.NoError(t, registry.Register(def))
	}
	registry.Seal()
	return registry
}

func TestInvokeSuccess(t *testing.T) {
	caller := &fakeCaller{payload: map[string]any{"distance_km": 3936.0}}
	d := &Dispatcher{
		Registry: sealedRegistry(t),
		Secrets:  secrets.Static{catalog.SecretAPIKey: "k"},
		Client:   caller,
	}

	payload, err := d.Invoke(context.Background(), "spatial_relationship", map[string]any{
		"start_lat": 40.7, "start_lon": -74.0, "end_lat": 34.0, "end_lon": -118.2,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"distance_km": 3936.0}, payload)
	assert.Equal(t, 1, caller.calls)
	assert.Equal(t, "spatial_relationship", caller.lastDef.Name)
	assert.True(t, caller.lastReq.Supplied["start_lat"])
	assert.False(t, caller.lastReq.Supplied["include_distance"])
}

func TestInvokeUnknownTool(t *testing.T) {
	caller := &fakeCaller{}
	provider := &recordingProvider{next: secrets.Static{catalog.SecretAPIKey: "k"}}
	d := &Dispatcher{Registry: sealedRegistry(t), Secrets: provider, Client: caller}

	_, err := d.Invoke(context.Background(), "teleport", nil)
	require.Error(t, err)
	assert.Equal(t, protocol.KindUnknownTool, protocol.KindOf(err))
	assert.Zero(t, caller.calls)
	assert.Zero(t, provider.resolves)
}

func TestInvokeValidationFailureSkipsSecretsAndNetwork(t *testing.T) {
	caller := &fakeCaller{}
	provider := &recordingProvider{next: secrets.Static{catalog.SecretAPIKey: "k"}}
	d := &Dispatcher{Registry: sealedRegistry(t), Secrets: provider, Client: caller}

	_, err := d.Invoke(context.Background(), "get_route", map[string]any{
		"start_lat": 1.0, "start_lon": 2.0, "end_lat": 3.0,
	})
	require.Error(t, err)
	assert.Equal(t, protocol.KindMissingParameter, protocol.KindOf(err))
	assert.Zero(t, caller.calls, "invalid input must never reach the upstream")
	assert.Zero(t, provider.resolves, "invalid input must never resolve credentials")
}

func TestInvokeSecretNotFoundCarriesToolName(t *testing.T) {
	caller := &fakeCaller{}
	d := &Dispatcher{Registry: sealedRegistry(t), Secrets: secrets.Static{}, Client: caller}

	_, err := d.Invoke(context.Background(), "get_route", map[string]any{
		"start_lat": 1.0, "start_lon": 2.0, "end_lat": 3.0, "end_lon": 4.0,
	})
	require.Error(t, err)
	gwErr, ok := protocol.AsError(err)
	require.True(t, ok)
	assert.Equal(t, protocol.KindSecretNotFound, gwErr.Kind)
	assert.Equal(t, "get_route", gwErr.Tool)
	assert.Equal(t, catalog.SecretAPIKey, gwErr.Field)
	assert.Zero(t, caller.calls)
}

func TestInvokeUpstreamErrorPassesThrough(t *testing.T) {
	caller := &fakeCaller{err: protocol.UpstreamStatus("get_route", http.StatusBadGateway, "bad gateway", 0)}
	d := &Dispatcher{Registry: sealedRegistry(t), Secrets: secrets.Static{catalog.SecretAPIKey: "k"}, Client: caller}

	_, err := d.Invoke(context.Background(), "get_route", map[string]any{
		"start_lat": 1.0, "start_lon": 2.0, "end_lat": 3.0, "end_lon": 4.0,
	})
	require.Error(t, err)
	gwErr, ok := protocol.AsError(err)
	require.True(t, ok)
	assert.Equal(t, protocol.KindUpstreamStatus, gwErr.Kind)
	assert.Equal(t, http.StatusBadGateway, gwErr.Status)
}

// Concurrent invocations must not bleed parameters into each other. Each
// goroutine sends a distinct sentinel through a real HTTP round trip and the
// echoed request must contain exactly its own.
func TestInvokeConcurrentIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"echo_query": r.URL.Query().Get("query"),
		})
	}))
	defer server.Close()

	d := &Dispatcher{
		Registry: sealedRegistry(t),
		Secrets:  secrets.Static{catalog.SecretAPIKey: "k"},
		Client:   &upstream.Client{BaseURL: server.URL, CredentialHeader: "X-API-Key"},
	}

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	payloads := make([]any, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sentinel := fmt.Sprintf("sentinel-%d", i)
			payloads[i], errs[i] = d.Invoke(context.Background(), "query", map[string]any{
				"query": sentinel,
				"lat":   1.0,
				"lon":   2.0,
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		body, ok := payloads[i].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("sentinel-%d", i), body["echo_query"])
	}
}

func TestInvocationIDContext(t *testing.T) {
	ctx := WithInvocationID(context.Background(), "inv-123")
	id, ok := InvocationIDFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "inv-123", id)

	_, ok = InvocationIDFrom(context.Background())
	assert.False(t, ok)
}
