package agent

// ToolSchema is a JSON Schema fragment describing a tool parameter. It
// covers the subset tool servers actually publish: typed scalars,
// arrays, and objects with required properties and enums.
type ToolSchema struct {
	Type                 string                `json:"type,omitempty"`
	Description          string                `json:"description,omitempty"`
	Properties           map[string]ToolSchema `json:"properties,omitempty"`
	Items                *ToolSchema           `json:"items,omitempty"`
	Required             []string              `json:"required,omitempty"`
	Enum                 []string              `json:"enum,omitempty"`
	AdditionalProperties *bool                 `json:"additionalProperties,omitempty"`
}

// ToolDescriptor is the advertised contract of one tool: its name, what
// it does, and the schema of its arguments.
type ToolDescriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  *ToolSchema `json:"parameters,omitempty"`
}

// BoolPointer returns a pointer to v, for optional schema fields.
func BoolPointer(v bool) *bool { return &v }

// ObjectSchema builds an object schema from its properties and required
// property names.
func ObjectSchema(properties map[string]ToolSchema, required ...string) *ToolSchema {
	return &ToolSchema{Type: "object", Properties: properties, Required: required}
}

// StringSchema builds a string property schema.
func StringSchema(description string) ToolSchema {
	return ToolSchema{Type: "string", Description: description}
}

// IntegerSchema builds an integer property schema.
func IntegerSchema(description string) ToolSchema {
	return ToolSchema{Type: "integer", Description: description}
}

// NumberSchema builds a number property schema.
func NumberSchema(description string) ToolSchema {
	return ToolSchema{Type: "number", Description: description}
}
