package agent

import (
	"context"
	"time"
)

// Role identifies who produced a history message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of conversation history. Assistant messages may
// carry tool calls alongside text; tool messages carry one result and
// reference the originating call through ToolCallID.
type Message struct {
	Role       Role
	Text       string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolCall is a model request to invoke a named tool. ID correlates the
// call with its eventual result message.
type ToolCall struct {
	ID   string
	Name string
	Args ToolCallArgs
}

// ToolResult is the outcome of one tool invocation.
type ToolResult struct {
	CallID   string
	Tool     string
	Content  string
	IsError  bool
	Duration time.Duration
}

// Prompt is everything a provider needs to produce the next turn.
type Prompt struct {
	System   string
	Messages []Message
	Tools    []ToolDescriptor
}

// Response is a provider's reply: final text, tool calls, or both.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Provider turns a prompt into the model's next response.
type Provider interface {
	Complete(ctx context.Context, prompt Prompt) (Response, error)
}

// ToolInvoker executes a single tool call. Failures are reported inside
// the result rather than as an error so the loop can fold them into
// history and continue.
type ToolInvoker interface {
	Invoke(ctx context.Context, call ToolCall) ToolResult
}
