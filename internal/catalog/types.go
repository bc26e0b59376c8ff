package catalog

import "time"

// ParamKind is the closed set of parameter kinds.
type ParamKind string

// Parameter kinds.
const (
	KindString  ParamKind = "string"
	KindNumber  ParamKind = "number"
	KindBoolean ParamKind = "boolean"
	KindEnum    ParamKind = "enum"
	KindObject  ParamKind = "object"
)

// ReturnShape is the structural contract a tool's result must satisfy.
type ReturnShape string

// Return shapes.
const (
	// ShapeObject requires a single JSON object.
	ShapeObject ReturnShape = "object"
	// ShapeArray requires an array of JSON objects.
	ShapeArray ReturnShape = "array"
)

// Encoding selects how validated arguments reach the upstream endpoint.
type Encoding string

// Request encodings.
const (
	// EncodingQuery sends supplied arguments as URL query parameters.
	EncodingQuery Encoding = "query"
	// EncodingJSON sends a JSON body.
	EncodingJSON Encoding = "json"
)

// ParameterSpec declares one tool parameter.
type ParameterSpec struct {
	// Name is the argument key.
	Name string
	// Kind selects the value kind.
	Kind ParamKind
	// Enum lists allowed values for enum kinds.
	Enum []string
	// Required marks the parameter as mandatory.
	Required bool
	// Default is substituted when an optional parameter is omitted.
	// Only valid when Required is false.
	Default any
	// Description documents the parameter for the agent. No runtime effect.
	Description string
	// Repeated marks object kinds that take a list of objects.
	Repeated bool
	// Prototype is a factory for the decode target of object kinds.
	Prototype func() any
}

// ToolDefinition describes one remote tool. Immutable after registration.
type ToolDefinition struct {
	// Name is the unique tool name.
	Name string
	// Title is the human-friendly tool title.
	Title string
	// Description explains the tool for the agent.
	Description string
	// Params lists parameters in declaration order.
	Params []ParameterSpec
	// Returns declares the payload shape callers can rely on.
	Returns ReturnShape
	// Secrets names the credentials the tool needs per call.
	Secrets []string
	// Timeout bounds the upstream call. Zero means the gateway default.
	Timeout time.Duration
	// Method is the upstream HTTP method.
	Method string
	// Path is the endpoint path under the upstream base URL.
	Path string
	// Encoding selects query vs JSON body delivery of arguments.
	Encoding Encoding
	// BuildBody assembles a nested JSON body from validated values.
	// Nil means a flat map of caller-supplied values.
	BuildBody func(values map[string]any, supplied map[string]bool) any
	// ReadOnly marks tools that never mutate upstream state; drives MCP
	// annotations and retry eligibility in the surrounding policy layer.
	ReadOnly bool
}

// Param returns the spec for the named parameter.
func (d *ToolDefinition) Param(name string) (ParameterSpec, bool) {
	for _, spec := range d.Params {
		if spec.Name == name {
			return spec, true
		}
	}
	return ParameterSpec{}, false
}
