package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.getcamino.ai", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, "X-API-Key", cfg.CredentialHeader)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, ":8080", cfg.HTTPListen)
	assert.Equal(t, "/mcp", cfg.HTTPPath)
	assert.Equal(t, 15*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, 150*time.Second, cfg.HTTPWriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPIdleTimeout)
	assert.Zero(t, cfg.UpstreamRPS)
	assert.Zero(t, cfg.SecretCacheTTL)
	assert.Zero(t, cfg.RetryMaxAttempts)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CAMINO_GATEWAY_BASE_URL", "https://staging.getcamino.ai")
	t.Setenv("CAMINO_GATEWAY_DEFAULT_TIMEOUT", "25s")
	t.Setenv("CAMINO_GATEWAY_TRANSPORT", "http")
	t.Setenv("CAMINO_GATEWAY_HTTP_WRITE_TIMEOUT", "4m")
	t.Setenv("CAMINO_GATEWAY_UPSTREAM_RPS", "2.5")
	t.Setenv("CAMINO_GATEWAY_SECRET_CACHE_TTL", "5m")
	t.Setenv("CAMINO_GATEWAY_RETRY_MAX_ATTEMPTS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.getcamino.ai", cfg.BaseURL)
	assert.Equal(t, 25*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, 4*time.Minute, cfg.HTTPWriteTimeout)
	assert.Equal(t, 2.5, cfg.UpstreamRPS)
	assert.Equal(t, 5*time.Minute, cfg.SecretCacheTTL)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
}

func TestValidateTransport(t *testing.T) {
	for _, transport := range []string{"stdio", "http"} {
		assert.NoError(t, Config{Transport: transport}.Validate())
	}
	for _, transport := range []string{"", "htpt", "sse", "STDIO"} {
		assert.Error(t, Config{Transport: transport}.Validate(), "transport %q", transport)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("CAMINO_GATEWAY_DEFAULT_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	overrides, err := LoadOverrides([]byte(`
upstream:
  base_url: https://eu.getcamino.ai
  default_timeout: 15s
tools:
  query:
    timeout: 90s
`))
	require.NoError(t, err)
	assert.Equal(t, "https://eu.getcamino.ai", overrides.Upstream.BaseURL)
	assert.Equal(t, "15s", overrides.Upstream.DefaultTimeout)
	assert.Equal(t, "90s", overrides.Tools["query"].Timeout)
}

func TestLoadOverridesEmpty(t *testing.T) {
	overrides, err := LoadOverrides(nil)
	require.NoError(t, err)
	assert.Empty(t, overrides.Tools)
	assert.Empty(t, overrides.Upstream.BaseURL)
}

func TestLoadOverridesRejectsUnknownKeys(t *testing.T) {
	_, err := LoadOverrides([]byte(`
upstream:
  base_uri: https://typo.example.com
`))
	require.Error(t, err)
}

func TestLoadOverridesRejectsMalformedDuration(t *testing.T) {
	_, err := LoadOverrides([]byte(`
tools:
  query:
    timeout: ninety seconds
`))
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	overrides, err := LoadOverrides([]byte(`
upstream:
  base_url: https://eu.getcamino.ai
  credential_header: X-Camino-Key
  default_timeout: 15s
tools:
  query:
    timeout: 90s
  get_route:
    timeout: 20s
`))
	require.NoError(t, err)

	cfg := Config{BaseURL: "https://api.getcamino.ai", CredentialHeader: "X-API-Key", DefaultTimeout: 10 * time.Second}
	defs := catalog.BuiltinTools()
	require.NoError(t, overrides.Apply(&cfg, defs))

	assert.Equal(t, "https://eu.getcamino.ai", cfg.BaseURL)
	assert.Equal(t, "X-Camino-Key", cfg.CredentialHeader)
	assert.Equal(t, 15*time.Second, cfg.DefaultTimeout)

	byName := map[string]catalog.ToolDefinition{}
	for _, def := range defs {
		byName[def.Name] = def
	}
	assert.Equal(t, 90*time.Second, byName["query"].Timeout)
	assert.Equal(t, 20*time.Second, byName["get_route"].Timeout)
	assert.Zero(t, byName["search_place"].Timeout, "untouched tools keep their defaults")
}

func TestApplyRejectsUnknownTool(t *testing.T) {
	overrides, err := LoadOverrides([]byte(`
tools:
  teleport:
    timeout: 5s
`))
	require.NoError(t, err)

	cfg := Config{}
	defs := catalog.BuiltinTools()
	require.Error(t, overrides.Apply(&cfg, defs))
}
