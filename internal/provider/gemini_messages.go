package provider

import (
	"encoding/json"
	"fmt"

	"sage/internal/agent"
)

// The wire layer converts neutral history into Gemini's contents/parts
// shape. Assistant turns map to role "model"; tool results travel as
// user-role functionResponse parts named after the original call.

type generateRequest struct {
	Contents          []content           `json:"contents"`
	SystemInstruction *content            `json:"systemInstruction,omitempty"`
	Tools             []toolDeclarations  `json:"tools,omitempty"`
	GenerationConfig  *generationSettings `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *functionCall     `json:"functionCall,omitempty"`
	FunctionResponse *functionResponse `json:"functionResponse,omitempty"`
}

type functionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type functionResponse struct {
	Name     string `json:"name"`
	Response struct {
		Result string `json:"result"`
	} `json:"response"`
}

type toolDeclarations struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
}

type functionDeclaration struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *declarationSchema `json:"parameters,omitempty"`
}

// declarationSchema is ToolSchema minus the keywords Gemini rejects.
type declarationSchema struct {
	Type        string                       `json:"type,omitempty"`
	Description string                       `json:"description,omitempty"`
	Properties  map[string]declarationSchema `json:"properties,omitempty"`
	Items       *declarationSchema           `json:"items,omitempty"`
	Required    []string                     `json:"required,omitempty"`
	Enum        []string                     `json:"enum,omitempty"`
}

type generationSettings struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

func buildRequest(cfg Config, prompt agent.Prompt) (generateRequest, error) {
	contents, err := buildContents(prompt.Messages)
	if err != nil {
		return generateRequest{}, err
	}
	request := generateRequest{Contents: contents}
	if prompt.System != "" {
		request.SystemInstruction = &content{Parts: []part{{Text: prompt.System}}}
	}
	if len(prompt.Tools) > 0 {
		declarations := make([]functionDeclaration, 0, len(prompt.Tools))
		for _, tool := range prompt.Tools {
			declarations = append(declarations, functionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  convertSchema(tool.Parameters),
			})
		}
		request.Tools = []toolDeclarations{{FunctionDeclarations: declarations}}
	}
	if cfg.Temperature != nil || cfg.TopP != nil || cfg.TopK != nil || cfg.MaxTokens > 0 {
		request.GenerationConfig = &generationSettings{
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
			MaxOutputTokens: cfg.MaxTokens,
		}
	}
	return request, nil
}

func buildContents(messages []agent.Message) ([]content, error) {
	contents := make([]content, 0, len(messages))
	callNames := make(map[string]string)
	for _, msg := range messages {
		switch msg.Role {
		case agent.RoleUser:
			contents = append(contents, content{Role: "user", Parts: []part{{Text: msg.Text}}})
		case agent.RoleAssistant:
			parts := make([]part, 0, len(msg.ToolCalls)+1)
			if msg.Text != "" {
				parts = append(parts, part{Text: msg.Text})
			}
			for _, call := range msg.ToolCalls {
				callNames[call.ID] = call.Name
				args, err := json.Marshal(call.Args)
				if err != nil {
					return nil, fmt.Errorf("encode arguments of call %s: %w", call.ID, err)
				}
				parts = append(parts, part{FunctionCall: &functionCall{Name: call.Name, Args: args}})
			}
			contents = append(contents, content{Role: "model", Parts: parts})
		case agent.RoleTool:
			name, ok := callNames[msg.ToolCallID]
			if !ok {
				return nil, fmt.Errorf("tool message references unknown call %q", msg.ToolCallID)
			}
			response := functionResponse{Name: name}
			response.Response.Result = msg.Text
			contents = append(contents, content{Role: "user", Parts: []part{{FunctionResponse: &response}}})
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return contents, nil
}

func convertSchema(schema *agent.ToolSchema) *declarationSchema {
	if schema == nil {
		return nil
	}
	converted := &declarationSchema{
		Type:        schema.Type,
		Description: schema.Description,
		Required:    schema.Required,
		Enum:        schema.Enum,
	}
	if len(schema.Properties) > 0 {
		converted.Properties = make(map[string]declarationSchema, len(schema.Properties))
		for name, property := range schema.Properties {
			converted.Properties[name] = *convertSchema(&property)
		}
	}
	if schema.Items != nil {
		converted.Items = convertSchema(schema.Items)
	}
	return converted
}
