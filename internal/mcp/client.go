package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"sage/internal/agent"
)

// protocolVersion is the streamable HTTP protocol revision the client
// negotiates during initialize.
const protocolVersion = "2024-11-05"

// HTTPDoer is the subset of http.Client the transport needs, split out
// so tests can inject responses.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client speaks JSON-RPC 2.0 to one tool server over streamable HTTP.
// Responses may arrive as plain JSON or as a server-sent event stream;
// both are handled transparently.
type Client struct {
	endpoint  string
	http      HTTPDoer
	timeout   time.Duration
	sessionID string
}

// NewClient builds a client for the given endpoint. A nil doer falls
// back to http.DefaultClient; timeout bounds each round trip when the
// caller's context carries no deadline.
func NewClient(endpoint string, doer HTTPDoer, timeout time.Duration) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: doer, timeout: timeout}
}

// Connect performs the initialize handshake and confirms it. It must
// complete before ListTools or CallTool.
func (c *Client) Connect(ctx context.Context) error {
	params := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "sage", "version": "0.1.0"},
	}
	if _, err := c.call(ctx, "initialize", params); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if err := c.notify(ctx, "notifications/initialized"); err != nil {
		return fmt.Errorf("confirm initialize: %w", err)
	}
	return nil
}

// ListTools fetches the server's advertised tools.
func (c *Client) ListTools(ctx context.Context) ([]agent.ToolDescriptor, error) {
	result, err := c.call(ctx, "tools/list", map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	var listed struct {
		Tools []struct {
			Name        string            `json:"name"`
			Description string            `json:"description"`
			InputSchema *agent.ToolSchema `json:"inputSchema"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(result, &listed); err != nil {
		return nil, fmt.Errorf("list tools: decode result: %w", err)
	}
	descriptors := make([]agent.ToolDescriptor, 0, len(listed.Tools))
	for _, t := range listed.Tools {
		descriptors = append(descriptors, agent.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.InputSchema,
		})
	}
	return descriptors, nil
}

// CallOutcome is the server's verdict on one tool call. IsError marks a
// tool-level failure the model should see, as opposed to a transport
// error.
type CallOutcome struct {
	Content string
	IsError bool
}

// CallTool invokes the named tool and joins the textual content parts
// of the response.
func (c *Client) CallTool(ctx context.Context, name string, args agent.ToolCallArgs) (CallOutcome, error) {
	params := map[string]any{"name": name, "arguments": args}
	result, err := c.call(ctx, "tools/call", params)
	if err != nil {
		return CallOutcome{}, fmt.Errorf("call tool %s: %w", name, err)
	}
	var called struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	if err := json.Unmarshal(result, &called); err != nil {
		return CallOutcome{}, fmt.Errorf("call tool %s: decode result: %w", name, err)
	}
	parts := make([]string, 0, len(called.Content))
	for _, part := range called.Content {
		if part.Type == "text" {
			parts = append(parts, part.Text)
		}
	}
	return CallOutcome{Content: strings.Join(parts, "\n"), IsError: called.IsError}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcEnvelope struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// matchesID reports whether an envelope id equals the string id this
// client issued. Notifications carry no id and never match.
func matchesID(raw json.RawMessage, id string) bool {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	return s == id
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	return c.send(ctx, rpcRequest{JSONRPC: "2.0", ID: uuid.NewString(), Method: method, Params: params})
}

func (c *Client) notify(ctx context.Context, method string) error {
	_, err := c.send(ctx, rpcRequest{JSONRPC: "2.0", Method: method})
	return err
}

func (c *Client) send(ctx context.Context, request rpcRequest) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if c.sessionID != "" {
		req.Header.Set("Mcp-Session-Id", c.sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s: server returned %d: %s", request.Method, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if id := resp.Header.Get("Mcp-Session-Id"); id != "" {
		c.sessionID = id
	}
	if request.ID == "" {
		// Notifications carry no response payload worth reading.
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var envelope rpcEnvelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		envelope, err = parseEventStream(resp.Body, request.ID)
	} else {
		err = json.NewDecoder(resp.Body).Decode(&envelope)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", request.Method, err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("%s: rpc error %d: %s", request.Method, envelope.Error.Code, envelope.Error.Message)
	}
	return envelope.Result, nil
}

// parseEventStream extracts the JSON-RPC envelope answering requestID
// from an SSE body. Servers may interleave notifications or progress
// events on the same stream; anything whose id does not correlate is
// skipped.
func parseEventStream(body io.Reader, requestID string) (rpcEnvelope, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		var envelope rpcEnvelope
		if err := json.Unmarshal([]byte(data), &envelope); err != nil {
			return rpcEnvelope{}, err
		}
		if !matchesID(envelope.ID, requestID) {
			continue
		}
		return envelope, nil
	}
	if err := scanner.Err(); err != nil {
		return rpcEnvelope{}, err
	}
	return rpcEnvelope{}, fmt.Errorf("event stream ended without a response for the request")
}
