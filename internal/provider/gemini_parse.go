package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"sage/internal/agent"
)

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text         string `json:"text"`
				FunctionCall *struct {
					Name string          `json:"name"`
					Args json.RawMessage `json:"args"`
				} `json:"functionCall"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// parseResponse flattens the first candidate into neutral text and tool
// calls. Gemini does not assign call ids, so fresh ones are minted here
// to correlate results later.
func parseResponse(body io.Reader) (agent.Response, error) {
	var decoded generateResponse
	if err := json.NewDecoder(body).Decode(&decoded); err != nil {
		return agent.Response{}, &InferenceError{Kind: KindMalformedResponse, Detail: "decode body", Err: err}
	}
	if len(decoded.Candidates) == 0 {
		return agent.Response{}, &InferenceError{Kind: KindMalformedResponse, Detail: "response carried no candidates"}
	}

	var texts []string
	var calls []agent.ToolCall
	for _, p := range decoded.Candidates[0].Content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
		if p.FunctionCall != nil {
			args, err := agent.DecodeArgs(p.FunctionCall.Args)
			if err != nil {
				detail := fmt.Sprintf("arguments of %s", p.FunctionCall.Name)
				return agent.Response{}, &InferenceError{Kind: KindMalformedResponse, Detail: detail, Err: err}
			}
			calls = append(calls, agent.ToolCall{
				ID:   uuid.NewString(),
				Name: p.FunctionCall.Name,
				Args: args,
			})
		}
	}
	return agent.Response{Text: strings.Join(texts, ""), ToolCalls: calls}, nil
}
