package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
)

// Overrides are per-deployment adjustments layered over the env config and
// the builtin catalog.
type Overrides struct {
	// Upstream adjusts connection settings.
	Upstream UpstreamOverrides `yaml:"upstream"`
	// Tools maps tool names to their overrides.
	Tools map[string]ToolOverrides `yaml:"tools"`
}

// UpstreamOverrides adjusts upstream connection settings.
type UpstreamOverrides struct {
	// BaseURL replaces the configured base URL when set.
	BaseURL string `yaml:"base_url"`
	// CredentialHeader replaces the credential header name when set.
	CredentialHeader string `yaml:"credential_header"`
	// DefaultTimeout replaces the default call timeout when set.
	DefaultTimeout string `yaml:"default_timeout"`
}

// ToolOverrides adjusts a single tool.
type ToolOverrides struct {
	// Timeout replaces the tool's call timeout.
	Timeout string `yaml:"timeout"`
}

// LoadOverrides parses override YAML. Unknown keys are rejected to surface
// deployment typos at startup rather than as silently ignored settings.
func LoadOverrides(data []byte) (*Overrides, error) {
	var overrides Overrides
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse overrides: %w", err)
	}
	if overrides.Upstream.DefaultTimeout != "" {
		if _, err := time.ParseDuration(overrides.Upstream.DefaultTimeout); err != nil {
			return nil, fmt.Errorf("upstream.default_timeout is invalid: %w", err)
		}
	}
	for name, tool := range overrides.Tools {
		if tool.Timeout == "" {
			continue
		}
		if _, err := time.ParseDuration(tool.Timeout); err != nil {
			return nil, fmt.Errorf("tools.%s.timeout is invalid: %w", name, err)
		}
	}
	return &overrides, nil
}

// Apply layers the overrides over the env config and tool definitions.
// Override entries naming unknown tools fail so schema drift between the
// deployment config and the builtin catalog is caught at startup.
func (o *Overrides) Apply(cfg *Config, defs []catalog.ToolDefinition) error {
	if o.Upstream.BaseURL != "" {
		cfg.BaseURL = o.Upstream.BaseURL
	}
	if o.Upstream.CredentialHeader != "" {
		cfg.CredentialHeader = o.Upstream.CredentialHeader
	}
	if o.Upstream.DefaultTimeout != "" {
		parsed, err := time.ParseDuration(o.Upstream.DefaultTimeout)
		if err != nil {
			return fmt.Errorf("upstream.default_timeout is invalid: %w", err)
		}
		cfg.DefaultTimeout = parsed
	}

	byName := make(map[string]int, len(defs))
	for i, def := range defs {
		byName[def.Name] = i
	}
	for name, tool := range o.Tools {
		idx, ok := byName[name]
		if !ok {
			return fmt.Errorf("tools.%s: tool is not in the catalog", name)
		}
		if tool.Timeout != "" {
			parsed, err := time.ParseDuration(tool.Timeout)
			if err != nil {
				return fmt.Errorf("tools.%s.timeout is invalid: %w", name, err)
			}
			defs[idx].Timeout = parsed
		}
	}
	return nil
}
