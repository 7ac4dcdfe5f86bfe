package agent

import (
	"encoding/json"
	"testing"
)

func TestDecodeArgsPlainObject(t *testing.T) {
	args, err := DecodeArgs(json.RawMessage(`{"model":"ecommerce","limit":5}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	model, err := args.RequiredString("model")
	if err != nil || model != "ecommerce" {
		t.Fatalf("model = %q, err = %v", model, err)
	}
}

func TestDecodeArgsEmpty(t *testing.T) {
	args, err := DecodeArgs(nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want empty", args)
	}
}

func TestDecodeArgsDoubleEncoded(t *testing.T) {
	args, err := DecodeArgs(json.RawMessage(`"{\"model\":\"sales\"}"`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	model, err := args.RequiredString("model")
	if err != nil || model != "sales" {
		t.Fatalf("model = %q, err = %v", model, err)
	}
}

func TestDecodeArgsRepairsDamagedJSON(t *testing.T) {
	args, err := DecodeArgs(json.RawMessage(`{model: 'sales', limit: 5,}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	model, err := args.RequiredString("model")
	if err != nil || model != "sales" {
		t.Fatalf("model = %q, err = %v", model, err)
	}
}

func TestDecodeArgsHopeless(t *testing.T) {
	if _, err := DecodeArgs(json.RawMessage(`42`)); err == nil {
		t.Fatalf("expected an error for a non-object payload")
	}
}

func TestArgsStringDeterministic(t *testing.T) {
	args, err := DecodeArgs(json.RawMessage(`{"b":2,"a":1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := args.String(); got != `{"a":1,"b":2}` {
		t.Fatalf("string = %s", got)
	}
	if got := (ToolCallArgs{}).String(); got != "{}" {
		t.Fatalf("empty string = %s", got)
	}
}

func TestOptionalString(t *testing.T) {
	args, err := DecodeArgs(json.RawMessage(`{"model":"sales"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := args.OptionalString("missing", "fallback")
	if err != nil || got != "fallback" {
		t.Fatalf("optional = %q, err = %v", got, err)
	}
	got, err = args.OptionalString("model", "fallback")
	if err != nil || got != "sales" {
		t.Fatalf("optional present = %q, err = %v", got, err)
	}
}
