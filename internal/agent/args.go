package agent

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ToolCallArgs holds the decoded arguments of a tool call keyed by
// parameter name, each value kept as raw JSON until a typed accessor
// is asked for it.
type ToolCallArgs map[string]json.RawMessage

// DecodeArgs parses raw model output into tool call arguments. Models
// occasionally emit arguments double-encoded as a JSON string, or with
// minor syntax damage; both are repaired before giving up.
func DecodeArgs(raw json.RawMessage) (ToolCallArgs, error) {
	if len(raw) == 0 {
		return ToolCallArgs{}, nil
	}
	var args ToolCallArgs
	if err := json.Unmarshal(raw, &args); err == nil {
		return args, nil
	}
	var wrapped string
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if err := json.Unmarshal([]byte(wrapped), &args); err == nil {
			return args, nil
		}
		raw = json.RawMessage(wrapped)
	}
	repaired, err := jsonrepair.JSONRepair(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode tool arguments: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &args); err != nil {
		return nil, fmt.Errorf("decode tool arguments: %w", err)
	}
	return args, nil
}

// String renders the arguments as a JSON object with deterministic key
// order, suitable for event content and prompts.
func (a ToolCallArgs) String() string {
	if len(a) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		name, _ := json.Marshal(k)
		b.Write(name)
		b.WriteByte(':')
		b.Write(a[k])
	}
	b.WriteByte('}')
	return b.String()
}

// RequiredString returns the named argument as a string, failing when
// it is absent or not a JSON string.
func (a ToolCallArgs) RequiredString(name string) (string, error) {
	raw, ok := a[name]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("argument %q is not a string: %w", name, err)
	}
	return s, nil
}

// OptionalString returns the named argument as a string, or fallback
// when it is absent.
func (a ToolCallArgs) OptionalString(name, fallback string) (string, error) {
	if _, ok := a[name]; !ok {
		return fallback, nil
	}
	return a.RequiredString(name)
}
