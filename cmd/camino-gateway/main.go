package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/camino-ai/camino-mcp-gateway/configs"
	"github.com/camino-ai/camino-mcp-gateway/internal/app"
	"github.com/camino-ai/camino-mcp-gateway/internal/audit"
	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
	"github.com/camino-ai/camino-mcp-gateway/internal/config"
	"github.com/camino-ai/camino-mcp-gateway/internal/gateway"
	"github.com/camino-ai/camino-mcp-gateway/internal/log"
	"github.com/camino-ai/camino-mcp-gateway/internal/retrypolicy"
	"github.com/camino-ai/camino-mcp-gateway/internal/runtime"
	"github.com/camino-ai/camino-mcp-gateway/internal/secrets"
	"github.com/camino-ai/camino-mcp-gateway/internal/upstream"
)

const (
	serverName    = "camino-gateway"
	serverVersion = "1.0.0"
)

func main() {
	root := &cobra.Command{
		Use:   serverName,
		Short: "MCP gateway for the Camino location-intelligence API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog as JSON",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printTools()
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(baseCtx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := log.New(cfg.LogLevel)

	registry, err := buildRegistry(&cfg)
	if err != nil {
		logger.Error("build catalog failed", "error", err)
		return err
	}

	var provider secrets.Provider = secrets.EnvProvider{}
	if cfg.SecretCacheTTL > 0 {
		provider = secrets.NewCached(provider, cfg.SecretCacheTTL)
	}

	client := &upstream.Client{
		BaseURL:          cfg.BaseURL,
		CredentialHeader: cfg.CredentialHeader,
		DefaultTimeout:   cfg.DefaultTimeout,
		Logger:           logger,
	}
	if cfg.UpstreamRPS > 0 {
		client.Limiter = rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), 1)
	}

	dispatcher := &gateway.Dispatcher{
		Registry: registry,
		Secrets:  provider,
		Client:   client,
		Logger:   logger,
		Audit:    audit.New(logger),
	}

	var invoker retrypolicy.Invoker = dispatcher
	if cfg.RetryMaxAttempts >= 2 {
		invoker = &retrypolicy.Retrying{
			Next:        dispatcher,
			Registry:    registry,
			MaxAttempts: cfg.RetryMaxAttempts,
			Logger:      logger,
		}
	}

	server := runtime.Builder{
		Logger:   logger,
		Registry: registry,
		Invoker:  invoker,
	}.Build(serverName, serverVersion)

	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	switch cfg.Transport {
	case "stdio":
		return server.Run(ctx, &mcp.StdioTransport{})
	case "http":
		return runHTTP(ctx, cfg, server, logger)
	default:
		return fmt.Errorf("transport %q is invalid", cfg.Transport)
	}
}

func buildRegistry(cfg *config.Config) (*catalog.Registry, error) {
	data, err := loadOverrideBytes(cfg.OverridesPath)
	if err != nil {
		return nil, err
	}
	overrides, err := config.LoadOverrides(data)
	if err != nil {
		return nil, err
	}

	defs := catalog.BuiltinTools()
	if err := overrides.Apply(cfg, defs); err != nil {
		return nil, err
	}

	registry := catalog.NewRegistry()
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}
	registry.Seal()
	return registry, nil
}

func loadOverrideBytes(path string) ([]byte, error) {
	if path == "" {
		return configs.Load("gateway.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides %q: %w", path, err)
	}
	return data, nil
}

func runHTTP(ctx context.Context, cfg config.Config, server *mcp.Server, logger *slog.Logger) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})

	application, err := app.New(ctx, cfg, handler, logger)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}

func printTools() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	registry, err := buildRegistry(&cfg)
	if err != nil {
		return err
	}

	type toolInfo struct {
		Name         string         `json:"name"`
		Description  string         `json:"description"`
		Returns      string         `json:"returns"`
		Timeout      string         `json:"timeout"`
		InputSchema  map[string]any `json:"input_schema"`
		OutputSchema map[string]any `json:"output_schema"`
	}

	var out []toolInfo
	for _, def := range registry.List() {
		timeout := def.Timeout
		if timeout <= 0 {
			timeout = cfg.DefaultTimeout
		}
		out = append(out, toolInfo{
			Name:         def.Name,
			Description:  def.Description,
			Returns:      string(def.Returns),
			Timeout:      timeout.Round(time.Millisecond).String(),
			InputSchema:  catalog.InputSchema(def),
			OutputSchema: catalog.OutputSchema(def),
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
