package params

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
)

func coerce(tool string, spec catalog.ParameterSpec, raw any) (any, error) {
	switch spec.Kind {
	case catalog.KindString:
		return coerceString(tool, spec.Name, raw)
	case catalog.KindNumber:
		return coerceNumber(tool, spec.Name, raw)
	case catalog.KindBoolean:
		return coerceBoolean(tool, spec.Name, raw)
	case catalog.KindEnum:
		return coerceEnum(tool, spec, raw)
	case catalog.KindObject:
		return coerceObject(tool, spec, raw)
	default:
		return nil, protocol.TypeMismatch(tool, spec.Name, string(spec.Kind), "unsupported parameter kind")
	}
}

func coerceString(tool, field string, raw any) (any, error) {
	value, ok := raw.(string)
	if !ok {
		return nil, protocol.TypeMismatch(tool, field, "string", describe(raw))
	}
	return value, nil
}

// coerceNumber accepts JSON numbers and unambiguous numeric strings. NaN and
// infinities are rejected so the value always survives JSON re-encoding.
func coerceNumber(tool, field string, raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, protocol.TypeMismatch(tool, field, "number", "value is not finite")
		}
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, protocol.TypeMismatch(tool, field, "number", describe(raw))
		}
		return parsed, nil
	case string:
		trimmed := strings.TrimSpace(v)
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil, protocol.TypeMismatch(tool, field, "number", describe(raw))
		}
		return parsed, nil
	default:
		return nil, protocol.TypeMismatch(tool, field, "number", describe(raw))
	}
}

func coerceBoolean(tool, field string, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, protocol.TypeMismatch(tool, field, "boolean", describe(raw))
}

func coerceEnum(tool string, spec catalog.ParameterSpec, raw any) (any, error) {
	value, ok := raw.(string)
	if !ok {
		return nil, protocol.TypeMismatch(tool, spec.Name, "string", describe(raw))
	}
	for _, member := range spec.Enum {
		if value == member {
			return value, nil
		}
	}
	return nil, protocol.InvalidEnumValue(tool, spec.Name, spec.Enum, value)
}

func coerceObject(tool string, spec catalog.ParameterSpec, raw any) (any, error) {
	if spec.Repeated {
		items, ok := raw.([]any)
		if !ok {
			return nil, protocol.TypeMismatch(tool, spec.Name, "array of objects", describe(raw))
		}
		decoded := make([]any, 0, len(items))
		for i, item := range items {
			value, err := decodeObject(tool, fmt.Sprintf("%s[%d]", spec.Name, i), spec, item)
			if err != nil {
				return nil, err
			}
			decoded = append(decoded, value)
		}
		return decoded, nil
	}
	return decodeObject(tool, spec.Name, spec, raw)
}

func decodeObject(tool, field string, spec catalog.ParameterSpec, raw any) (any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, protocol.TypeMismatch(tool, field, "object", describe(raw))
	}
	if spec.Prototype == nil {
		return obj, nil
	}
	target := spec.Prototype()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, protocol.TypeMismatch(tool, field, "object", err.Error())
	}
	if err := decoder.Decode(obj); err != nil {
		return nil, protocol.TypeMismatch(tool, field, "object", err.Error())
	}
	return target, nil
}

func describe(raw any) string {
	switch raw.(type) {
	case nil:
		return "got null"
	case string:
		return fmt.Sprintf("got string %q", raw)
	default:
		return fmt.Sprintf("got %T (%v)", raw, raw)
	}
}
