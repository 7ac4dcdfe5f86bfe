package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sage/internal/agent"
)

// InvalidArgumentsError reports a call rejected before reaching the
// server because its arguments do not satisfy the tool's schema.
type InvalidArgumentsError struct {
	Tool   string
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

// Invoker executes tool calls against a registry. Every failure mode,
// including unknown tools and schema violations, becomes an error
// result rather than an error return so the loop can keep going.
type Invoker struct {
	registry *Registry
	timeout  time.Duration
	clock    func() time.Time
}

// NewInvoker builds an invoker. timeout bounds each call; zero means
// the caller's context alone decides.
func NewInvoker(registry *Registry, timeout time.Duration) *Invoker {
	return &Invoker{registry: registry, timeout: timeout, clock: time.Now}
}

// Invoke implements agent.ToolInvoker.
func (inv *Invoker) Invoke(ctx context.Context, call agent.ToolCall) agent.ToolResult {
	started := inv.clock()
	descriptor, known := inv.registry.Describe(call.Name)
	if !known {
		return inv.failure(call, started, fmt.Sprintf("unknown tool %q", call.Name))
	}
	if err := ValidateArgs(descriptor.Parameters, call.Args); err != nil {
		argErr := &InvalidArgumentsError{Tool: call.Name, Reason: err.Error()}
		return inv.failure(call, started, argErr.Error())
	}
	client, _ := inv.registry.owner(call.Name)

	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}
	outcome, err := client.CallTool(ctx, call.Name, call.Args)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// The deadline may be the invoker's, the transport's, or the
			// caller's; report the time actually spent.
			elapsed := inv.clock().Sub(started).Round(time.Millisecond)
			return inv.failure(call, started, fmt.Sprintf("tool call timed out after %s", elapsed))
		}
		return inv.failure(call, started, err.Error())
	}
	if outcome.IsError {
		return inv.failure(call, started, outcome.Content)
	}
	return agent.ToolResult{
		CallID:   call.ID,
		Tool:     call.Name,
		Content:  outcome.Content,
		Duration: inv.clock().Sub(started),
	}
}

func (inv *Invoker) failure(call agent.ToolCall, started time.Time, content string) agent.ToolResult {
	return agent.ToolResult{
		CallID:   call.ID,
		Tool:     call.Name,
		Content:  content,
		IsError:  true,
		Duration: inv.clock().Sub(started),
	}
}
