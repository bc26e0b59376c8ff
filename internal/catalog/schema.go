package catalog

// InputSchema renders the JSON Schema advertised to the agent host for one
// tool. Unknown keys are rejected at validation time, so the schema declares
// additionalProperties: false to surface caller/schema drift during
// capability negotiation as well.
func InputSchema(def *ToolDefinition) map[string]any {
	properties := make(map[string]any, len(def.Params))
	var required []string
	for _, spec := range def.Params {
		properties[spec.Name] = propertySchema(spec)
		if spec.Required {
			required = append(required, spec.Name)
		}
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// OutputSchema renders the declared return shape.
func OutputSchema(def *ToolDefinition) map[string]any {
	if def.Returns == ShapeArray {
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "object"},
		}
	}
	return map[string]any{"type": "object"}
}

func propertySchema(spec ParameterSpec) map[string]any {
	prop := map[string]any{}
	switch spec.Kind {
	case KindString:
		prop["type"] = "string"
	case KindNumber:
		prop["type"] = "number"
	case KindBoolean:
		prop["type"] = "boolean"
	case KindEnum:
		prop["type"] = "string"
		members := make([]any, len(spec.Enum))
		for i, member := range spec.Enum {
			members[i] = member
		}
		prop["enum"] = members
	case KindObject:
		if spec.Repeated {
			prop["type"] = "array"
			prop["items"] = map[string]any{"type": "object"}
		} else {
			prop["type"] = "object"
		}
	}
	if spec.Description != "" {
		prop["description"] = spec.Description
	}
	if spec.Default != nil {
		prop["default"] = spec.Default
	}
	return prop
}
