package catalog

import (
	"fmt"
	"strings"

	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
)

// Registration-phase errors. These abort startup; they are never part of the
// per-invocation taxonomy.
var (
	// ErrDuplicateTool reports a second registration under the same name.
	ErrDuplicateTool = fmt.Errorf("duplicate tool name")
	// ErrSealed reports a registration after Seal.
	ErrSealed = fmt.Errorf("registry is sealed")
)

// Registry holds the tool catalog. Registration happens once at startup;
// after Seal the registry is read-only and reads need no synchronization.
type Registry struct {
	byName map[string]*ToolDefinition
	order  []string
	sealed bool
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*ToolDefinition)}
}

// Register adds a tool definition. Fails on duplicate names, registration
// after Seal, or a structurally invalid definition.
func (r *Registry) Register(def ToolDefinition) error {
	if r.sealed {
		return fmt.Errorf("register %s: %w", def.Name, ErrSealed)
	}
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("tool name is required")
	}
	if _, exists := r.byName[def.Name]; exists {
		return fmt.Errorf("register %s: %w", def.Name, ErrDuplicateTool)
	}
	if err := validateDefinition(def); err != nil {
		return fmt.Errorf("register %s: %w", def.Name, err)
	}
	stored := def
	r.byName[def.Name] = &stored
	r.order = append(r.order, def.Name)
	return nil
}

// Seal marks the registration phase complete.
func (r *Registry) Seal() {
	r.sealed = true
}

// Lookup returns the named tool definition.
func (r *Registry) Lookup(name string) (*ToolDefinition, error) {
	def, ok := r.byName[name]
	if !ok {
		return nil, protocol.UnknownTool(name)
	}
	return def, nil
}

// List returns all definitions in registration order.
func (r *Registry) List() []*ToolDefinition {
	defs := make([]*ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.byName[name])
	}
	return defs
}

func validateDefinition(def ToolDefinition) error {
	switch def.Returns {
	case ShapeObject, ShapeArray:
	default:
		return fmt.Errorf("return shape %q is invalid", def.Returns)
	}
	switch def.Encoding {
	case EncodingQuery, EncodingJSON:
	default:
		return fmt.Errorf("encoding %q is invalid", def.Encoding)
	}
	if strings.TrimSpace(def.Method) == "" {
		return fmt.Errorf("method is required")
	}
	if !strings.HasPrefix(def.Path, "/") {
		return fmt.Errorf("path %q must start with /", def.Path)
	}

	seen := map[string]struct{}{}
	for i, spec := range def.Params {
		if strings.TrimSpace(spec.Name) == "" {
			return fmt.Errorf("params[%d].name is required", i)
		}
		if _, dup := seen[spec.Name]; dup {
			return fmt.Errorf("duplicate parameter name: %s", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		switch spec.Kind {
		case KindString, KindNumber, KindBoolean, KindObject:
		case KindEnum:
			if len(spec.Enum) == 0 {
				return fmt.Errorf("param %s: enum kind needs members", spec.Name)
			}
		default:
			return fmt.Errorf("param %s: kind %q is invalid", spec.Name, spec.Kind)
		}
		if spec.Required && spec.Default != nil {
			return fmt.Errorf("param %s: default is only valid for optional parameters", spec.Name)
		}
		if spec.Repeated && spec.Kind != KindObject {
			return fmt.Errorf("param %s: repeated is only valid for object kinds", spec.Name)
		}
	}
	return nil
}
