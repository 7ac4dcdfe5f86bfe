package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSystemPrompt steers the model when the configuration does not
// override it.
const DefaultSystemPrompt = "You are a careful data analyst. Use the available tools to " +
	"answer the user's question. Think step by step, call tools when you need facts, and " +
	"give a concise final answer grounded in the tool results."

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads, substitutes, parses, normalizes, and validates the
// configuration at path. A .env file next to it is loaded first so
// ${VAR} references resolve without exporting secrets shell-wide.
func Load(path string) (Config, error) {
	loadDotenv(filepath.Dir(path))
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(substituteEnv(raw))
	if err != nil {
		return Config{}, err
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotenv(dir string) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// substituteEnv replaces ${VAR} references with environment values.
// Unset variables become empty strings and surface as validation
// failures on required fields.
func substituteEnv(raw []byte) []byte {
	return envPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		name := envPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// Parse decodes exactly one YAML document, rejecting unknown fields so
// typos fail loudly instead of silently defaulting.
func Parse(raw []byte) (Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	var extra Config
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: expected a single document")
	}
	return cfg, nil
}

// Normalize fills defaults for everything validation does not require.
func Normalize(cfg Config) Config {
	if cfg.Auth.TokenRefreshSeconds <= 0 {
		cfg.Auth.TokenRefreshSeconds = 60
	}
	if cfg.LLM.Temperature == nil {
		t := 0.5
		cfg.LLM.Temperature = &t
	}
	if cfg.LLM.MaxTokens <= 0 {
		cfg.LLM.MaxTokens = 1024
	}
	if cfg.LLM.TimeoutSeconds <= 0 {
		cfg.LLM.TimeoutSeconds = 60
	}
	if cfg.Agent.MaxIterations <= 0 {
		cfg.Agent.MaxIterations = 10
	}
	if cfg.Agent.HistoryTurns <= 0 {
		cfg.Agent.HistoryTurns = 20
	}
	if cfg.Agent.SystemPrompt == "" {
		cfg.Agent.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Agent.ToolTimeoutSeconds <= 0 {
		cfg.Agent.ToolTimeoutSeconds = 60
	}
	for name, server := range cfg.MCP.Servers {
		if server.TimeoutSeconds <= 0 {
			server.TimeoutSeconds = 60
			cfg.MCP.Servers[name] = server
		}
	}
	return cfg
}
