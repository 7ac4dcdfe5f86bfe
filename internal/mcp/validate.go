package mcp

import (
	"encoding/json"
	"fmt"
	"math"

	"sage/internal/agent"
)

// ValidateArgs checks decoded arguments against a tool's parameter
// schema. A nil schema accepts anything; this mirrors servers that
// publish tools without input schemas.
func ValidateArgs(schema *agent.ToolSchema, args agent.ToolCallArgs) error {
	if schema == nil {
		return nil
	}
	for _, name := range schema.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("missing required property %q", name)
		}
	}
	for name, raw := range args {
		property, known := schema.Properties[name]
		if !known {
			if schema.AdditionalProperties != nil && !*schema.AdditionalProperties {
				return fmt.Errorf("unexpected property %q", name)
			}
			continue
		}
		if err := checkType(name, property, raw); err != nil {
			return err
		}
	}
	return nil
}

func checkType(name string, property agent.ToolSchema, raw json.RawMessage) error {
	switch property.Type {
	case "object":
		var v map[string]json.RawMessage
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("property %q must be an object", name)
		}
	case "array":
		var v []json.RawMessage
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("property %q must be an array", name)
		}
	case "string":
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("property %q must be a string", name)
		}
		if len(property.Enum) > 0 && !contains(property.Enum, v) {
			return fmt.Errorf("property %q must be one of %v", name, property.Enum)
		}
	case "number":
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("property %q must be a number", name)
		}
	case "integer":
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil || v != math.Trunc(v) {
			return fmt.Errorf("property %q must be an integer", name)
		}
	case "boolean":
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("property %q must be a boolean", name)
		}
	default:
		// A schema without a type accepts any value. Unknown types pass
		// through too; the server owns them.
	}
	return nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
