package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the gateway. Read once at
// startup, process-wide.
type Config struct {
	// BaseURL is the upstream API base URL.
	BaseURL string `env:"CAMINO_GATEWAY_BASE_URL" envDefault:"https://api.getcamino.ai"`
	// DefaultTimeout bounds upstream calls for tools without an override.
	DefaultTimeout time.Duration `env:"CAMINO_GATEWAY_DEFAULT_TIMEOUT" envDefault:"10s"`
	// CredentialHeader names the header carrying the per-call credential.
	CredentialHeader string `env:"CAMINO_GATEWAY_CREDENTIAL_HEADER" envDefault:"X-API-Key"`
	// LogLevel sets the logger level.
	LogLevel string `env:"CAMINO_GATEWAY_LOG_LEVEL" envDefault:"info"`
	// Transport selects the MCP transport ("stdio" or "http").
	Transport string `env:"CAMINO_GATEWAY_TRANSPORT" envDefault:"stdio"`
	// HTTPListen is the HTTP transport listen address.
	HTTPListen string `env:"CAMINO_GATEWAY_HTTP_LISTEN" envDefault:":8080"`
	// HTTPPath is the MCP HTTP endpoint path.
	HTTPPath string `env:"CAMINO_GATEWAY_HTTP_PATH" envDefault:"/mcp"`
	// HTTPReadTimeout bounds reading a request on the HTTP transport.
	HTTPReadTimeout time.Duration `env:"CAMINO_GATEWAY_HTTP_READ_TIMEOUT" envDefault:"15s"`
	// HTTPWriteTimeout bounds writing a response on the HTTP transport. It
	// must cover the largest per-tool timeout or long calls are severed
	// mid-flight.
	HTTPWriteTimeout time.Duration `env:"CAMINO_GATEWAY_HTTP_WRITE_TIMEOUT" envDefault:"150s"`
	// HTTPIdleTimeout bounds idle keep-alive connections.
	HTTPIdleTimeout time.Duration `env:"CAMINO_GATEWAY_HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	// ShutdownTimeout controls graceful shutdown duration.
	ShutdownTimeout time.Duration `env:"CAMINO_GATEWAY_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// UpstreamRPS rate-limits outbound calls. Zero disables the limiter.
	UpstreamRPS float64 `env:"CAMINO_GATEWAY_UPSTREAM_RPS" envDefault:"0"`
	// SecretCacheTTL enables the credential cache when positive.
	SecretCacheTTL time.Duration `env:"CAMINO_GATEWAY_SECRET_CACHE_TTL" envDefault:"0"`
	// RetryMaxAttempts enables the retry policy layer when at least 2.
	RetryMaxAttempts int `env:"CAMINO_GATEWAY_RETRY_MAX_ATTEMPTS" envDefault:"0"`
	// OverridesPath points at a deployment overrides YAML file. Empty means
	// the embedded defaults.
	OverridesPath string `env:"CAMINO_GATEWAY_OVERRIDES" envDefault:""`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}

// Validate rejects settings that would otherwise fail silently at runtime.
func (c Config) Validate() error {
	switch c.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("transport %q is invalid (expected %q or %q)", c.Transport, "stdio", "http")
	}
	return nil
}
