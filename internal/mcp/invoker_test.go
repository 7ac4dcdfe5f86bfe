package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sage/internal/agent"
)

func TestInvokerUnknownTool(t *testing.T) {
	registry := NewRegistry(nil)
	invoker := NewInvoker(registry, time.Second)

	result := invoker.Invoke(context.Background(), agent.ToolCall{ID: "c1", Name: "missing"})
	if !result.IsError {
		t.Fatalf("expected error result")
	}
	if !strings.Contains(result.Content, `unknown tool "missing"`) {
		t.Fatalf("content = %q", result.Content)
	}
	if result.CallID != "c1" || result.Tool != "missing" {
		t.Fatalf("result identity = %+v", result)
	}
}

func TestInvokerRejectsInvalidArgumentsLocally(t *testing.T) {
	var toolCalls atomic.Int32
	server := newTestServer(t, func(call rpcCall, w http.ResponseWriter) {
		switch call.Method {
		case "tools/list":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{"tools":[{
				"name":"run_query",
				"inputSchema":{"type":"object","properties":{"model":{"type":"string"}},"required":["model"]}
			}]}}`, call.ID)
		case "tools/call":
			toolCalls.Add(1)
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{"content":[]}}`, call.ID)
		}
	})
	defer server.Close()

	registry := NewRegistry([]Server{{Name: "looker", Client: NewClient(server.URL, nil, time.Second)}})
	if err := registry.Discover(context.Background()); err != nil {
		t.Fatalf("discover: %v", err)
	}
	invoker := NewInvoker(registry, time.Second)

	result := invoker.Invoke(context.Background(), agent.ToolCall{ID: "c1", Name: "run_query", Args: agent.ToolCallArgs{}})
	if !result.IsError {
		t.Fatalf("expected error result")
	}
	if !strings.Contains(result.Content, `missing required property "model"`) {
		t.Fatalf("content = %q", result.Content)
	}
	if got := toolCalls.Load(); got != 0 {
		t.Fatalf("server was called %d times for invalid arguments", got)
	}
}

func TestInvokerSuccess(t *testing.T) {
	server := newTestServer(t, func(call rpcCall, w http.ResponseWriter) {
		switch call.Method {
		case "tools/list":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{"tools":[{"name":"get_models"}]}}`, call.ID)
		case "tools/call":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{"content":[{"type":"text","text":"ecommerce"}]}}`, call.ID)
		}
	})
	defer server.Close()

	registry := NewRegistry([]Server{{Name: "looker", Client: NewClient(server.URL, nil, time.Second)}})
	if err := registry.Discover(context.Background()); err != nil {
		t.Fatalf("discover: %v", err)
	}
	invoker := NewInvoker(registry, time.Second)

	result := invoker.Invoke(context.Background(), agent.ToolCall{ID: "c1", Name: "get_models"})
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content)
	}
	if result.Content != "ecommerce" {
		t.Fatalf("content = %q", result.Content)
	}
	if result.Duration < 0 {
		t.Fatalf("duration = %v", result.Duration)
	}
}

func TestInvokerTimeout(t *testing.T) {
	server := newTestServer(t, func(call rpcCall, w http.ResponseWriter) {
		switch call.Method {
		case "tools/list":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{"tools":[{"name":"slow"}]}}`, call.ID)
		case "tools/call":
			time.Sleep(300 * time.Millisecond)
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{"content":[]}}`, call.ID)
		}
	})
	defer server.Close()

	registry := NewRegistry([]Server{{Name: "looker", Client: NewClient(server.URL, nil, 0)}})
	if err := registry.Discover(context.Background()); err != nil {
		t.Fatalf("discover: %v", err)
	}
	invoker := NewInvoker(registry, 50*time.Millisecond)

	result := invoker.Invoke(context.Background(), agent.ToolCall{ID: "c1", Name: "slow"})
	if !result.IsError {
		t.Fatalf("expected timeout result")
	}
	if !strings.Contains(result.Content, "timed out after ") {
		t.Fatalf("content = %q", result.Content)
	}
	if strings.Contains(result.Content, "after 0s") {
		t.Fatalf("content reports no elapsed time: %q", result.Content)
	}
}

func TestInvokerCallerDeadlineReportsElapsed(t *testing.T) {
	server := newTestServer(t, func(call rpcCall, w http.ResponseWriter) {
		switch call.Method {
		case "tools/list":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{"tools":[{"name":"slow"}]}}`, call.ID)
		case "tools/call":
			time.Sleep(300 * time.Millisecond)
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{"content":[]}}`, call.ID)
		}
	})
	defer server.Close()

	registry := NewRegistry([]Server{{Name: "looker", Client: NewClient(server.URL, nil, 0)}})
	if err := registry.Discover(context.Background()); err != nil {
		t.Fatalf("discover: %v", err)
	}
	// No invoker timeout; only the caller's deadline can fire.
	invoker := NewInvoker(registry, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := invoker.Invoke(ctx, agent.ToolCall{ID: "c1", Name: "slow"})
	if !result.IsError {
		t.Fatalf("expected timeout result")
	}
	if !strings.Contains(result.Content, "timed out after ") || strings.Contains(result.Content, "after 0s") {
		t.Fatalf("content = %q", result.Content)
	}
}

func TestInvokerRemoteToolError(t *testing.T) {
	server := newTestServer(t, func(call rpcCall, w http.ResponseWriter) {
		switch call.Method {
		case "tools/list":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{"tools":[{"name":"run_query"}]}}`, call.ID)
		case "tools/call":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q,"result":{
				"content":[{"type":"text","text":"model not found"}],"isError":true}}`, call.ID)
		}
	})
	defer server.Close()

	registry := NewRegistry([]Server{{Name: "looker", Client: NewClient(server.URL, nil, time.Second)}})
	if err := registry.Discover(context.Background()); err != nil {
		t.Fatalf("discover: %v", err)
	}
	invoker := NewInvoker(registry, time.Second)

	result := invoker.Invoke(context.Background(), agent.ToolCall{ID: "c1", Name: "run_query"})
	if !result.IsError || result.Content != "model not found" {
		t.Fatalf("result = %+v", result)
	}
}
