package config

// Config is the full runtime configuration loaded from YAML.
type Config struct {
	Auth  AuthConfig  `yaml:"auth"`
	LLM   LLMConfig   `yaml:"llm"`
	MCP   MCPConfig   `yaml:"mcp"`
	Agent AgentConfig `yaml:"agent"`
}

// AuthConfig locates the token endpoint and its credentials. Secrets
// normally arrive through ${VAR} substitution rather than literals.
type AuthConfig struct {
	URL                 string `yaml:"url"`
	ClientID            string `yaml:"client_id"`
	ClientSecret        string `yaml:"client_secret"`
	TokenRefreshSeconds int    `yaml:"token_refresh_seconds"`
}

// LLMConfig locates the model endpoint and tunes sampling.
type LLMConfig struct {
	URL            string   `yaml:"url"`
	Model          string   `yaml:"model"`
	Scope          []string `yaml:"scope"`
	Temperature    *float64 `yaml:"temperature"`
	TopP           *float64 `yaml:"top_p"`
	TopK           *int     `yaml:"top_k"`
	MaxTokens      int      `yaml:"max_tokens"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// MCPConfig names the tool servers to discover at startup.
type MCPConfig struct {
	Servers map[string]MCPServerConfig `yaml:"servers"`
}

// MCPServerConfig locates one tool server.
type MCPServerConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AgentConfig tunes the orchestration loop and conversation history.
type AgentConfig struct {
	MaxIterations      int    `yaml:"max_iterations"`
	HistoryTurns       int    `yaml:"history_turns"`
	SystemPrompt       string `yaml:"system_prompt"`
	ToolTimeoutSeconds int    `yaml:"tool_timeout_seconds"`
}
