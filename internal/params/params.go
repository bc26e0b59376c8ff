// Package params validates and coerces caller arguments against a tool's
// parameter specs. Validation is pure: no I/O, no credential access.
package params

import (
	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
)

// Resolved is a validated argument set. It is only constructed when every
// parameter spec is satisfied and no unknown keys are present.
type Resolved struct {
	// Tool is the tool the arguments were validated against.
	Tool string
	// Values holds every parameter, with defaults substituted for omitted
	// optional parameters.
	Values map[string]any
	// Supplied marks parameters the caller provided explicitly. Only these
	// are forwarded upstream, so omitted optionals never override upstream
	// server-side defaults.
	Supplied map[string]bool
}

// Validate checks args against the tool definition and returns the resolved
// request. The first failing parameter aborts validation.
func Validate(def *catalog.ToolDefinition, args map[string]any) (*Resolved, error) {
	resolved := &Resolved{
		Tool:     def.Name,
		Values:   make(map[string]any, len(def.Params)),
		Supplied: make(map[string]bool, len(args)),
	}

	for _, spec := range def.Params {
		raw, present := args[spec.Name]
		if !present {
			if spec.Required {
				return nil, protocol.MissingParameter(def.Name, spec.Name)
			}
			if spec.Default != nil {
				resolved.Values[spec.Name] = spec.Default
			}
			continue
		}
		value, err := coerce(def.Name, spec, raw)
		if err != nil {
			return nil, err
		}
		resolved.Values[spec.Name] = value
		resolved.Supplied[spec.Name] = true
	}

	for key := range args {
		if _, known := def.Param(key); !known {
			return nil, protocol.UnknownParameter(def.Name, key)
		}
	}

	return resolved, nil
}
